package config

import (
	"errors"
	"io/fs"
)

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
