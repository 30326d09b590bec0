// Package fsutil holds file helpers shared by the build stages.
package fsutil

import (
	"io"
	"os"
)

// CopyFile copies the contents of src to dst, creating or truncating dst.
// The parent directory of dst must exist.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
