//go:build !unix

package sysinfo

import "errors"

func kernelRelease() (string, error) {
	return "", errors.New("kernel release not available on this platform")
}
