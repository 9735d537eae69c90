// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package sysinfo

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strings"
)

// SysUnknown describes a system whose details could not be read.
var SysUnknown = SysInfo{
	Name:    runtime.GOOS,
	Release: "unknown",
	Version: "unknown",
}

// SysInfo is the operating system recorded in the execution environment of
// a carve report.
type SysInfo struct {
	Name    string // runtime.GOOS
	Release string // distribution name, e.g. "Ubuntu 24.04 LTS"
	Version string // kernel release
}

// Stat returns the details of the running system. Fields that cannot be
// read are set to "unknown".
func Stat() (*SysInfo, error) {
	info := SysUnknown

	if runtime.GOOS == "linux" {
		info.Release = "Linux"
		if f, err := os.Open("/etc/os-release"); err == nil {
			if name, ok := prettyName(f); ok {
				info.Release = name
			}
			f.Close()
		}
	}

	if version, err := kernelRelease(); err == nil {
		info.Version = version
	}
	return &info, nil
}

// prettyName reads the PRETTY_NAME field of an os-release file.
func prettyName(r io.Reader) (string, bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if v, ok := strings.CutPrefix(scanner.Text(), "PRETTY_NAME="); ok {
			return strings.Trim(v, `"'`), true
		}
	}
	return "", false
}
