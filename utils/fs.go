package utils

import "os"

// EnsureDir idempotently creates dir (and parents). Called once at startup
// so the storage location exists before the server accepts requests.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
