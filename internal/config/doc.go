// Package config loads, normalizes, and validates the chapterize
// configuration file.
//
// Configuration is TOML, looked up at ~/.config/chapterize/config.toml or
// ./chapterize.toml unless an explicit path is given. Missing files are not
// an error; defaults apply and are still validated.
package config
