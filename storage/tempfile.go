package storage

import "os"

func newTempFile(pattern string) (*os.File, error) {
	return os.CreateTemp("", pattern)
}
