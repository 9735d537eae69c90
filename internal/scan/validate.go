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
package scan

import (
	"fmt"
	"log/slog"

	"github.com/ostafen/carver/internal/format"
	"github.com/ostafen/carver/internal/logger"
	"github.com/ostafen/carver/internal/report"
	osutils "github.com/ostafen/carver/pkg/util/os"
)

// Classifier tells the format of a file from its content.
type Classifier interface {
	Classify(data []byte) (format.Label, bool)
}

// Validator double checks carved files against an independent classifier
// and removes the ones that do not match the format they were carved as.
type Validator struct {
	classifier Classifier
	logger     *slog.Logger
}

func NewValidator(classifier Classifier, slogger *slog.Logger) *Validator {
	if slogger == nil {
		slogger = logger.Discard()
	}
	return &Validator{
		classifier: classifier,
		logger:     slogger,
	}
}

// Validate classifies data, the content written at path, and compares the
// result with the claimed format. On mismatch the file at path is removed:
// an error is returned only if the removal fails.
func (v *Validator) Validate(path string, claimed format.Label, data []byte) (report.Verdict, error) {
	label, ok := v.classifier.Classify(data)
	if ok && label == claimed {
		return report.Accepted, nil
	}

	detected := string(label)
	if !ok {
		detected = "unrecognized"
	}

	v.logger.Warn("rejecting carved file",
		"path", path,
		"claimed", claimed,
		"detected", detected,
	)

	if err := osutils.RemoveIfExists(path); err != nil {
		return report.Rejected, fmt.Errorf("failed to remove rejected file %q: %w", path, err)
	}
	return report.Rejected, nil
}
