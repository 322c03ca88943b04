package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/rusq/teamsdump/internal/network"
)

var ErrConfigInvalid = errors.New("config validation failed")

// LoadLimits reads, parses and validates the API limits file, applying it on
// top of the defaults.
func LoadLimits(filename string) (network.Limits, error) {
	f, err := os.Open(filename)
	if err != nil {
		return network.Limits{}, err
	}
	defer f.Close()
	return readLimits(f)
}

func readLimits(r io.Reader) (network.Limits, error) {
	// missing keys keep their default values.
	limits := network.DefLimits
	if _, err := toml.NewDecoder(r).Decode(&limits); err != nil {
		return network.Limits{}, err
	}
	if err := limits.Validate(); err != nil {
		if err := printErrors(os.Stderr, err); err != nil {
			return network.Limits{}, err
		}
		return network.Limits{}, ErrConfigInvalid
	}
	return limits, nil
}

// SaveLimits writes the limits to the file in the TOML format, so that it can
// be adjusted and fed back with the api config flag.
func SaveLimits(filename string, limits network.Limits) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(limits)
}

// printErrors prints the validation errors to the writer in a readable form.
func printErrors(w io.Writer, err error) error {
	if err == nil {
		return nil
	}

	var wErr error
	var printErr = func(format string, a ...any) {
		if wErr != nil {
			return
		}
		_, wErr = fmt.Fprintf(w, format, a...)
	}

	printErr("Detected problems:\n")
	var vErr validator.ValidationErrors
	if !errors.As(err, &vErr) {
		return err
	}
	for i, entry := range vErr {
		printErr("\t%2d: %s\n", i+1, entry.Translate(network.ErrTranslations))
	}
	return wErr
}
