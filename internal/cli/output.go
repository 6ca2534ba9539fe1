// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

var (
	errMissingSecret = errors.New("no secret: pass --secret or set " + secretEnv)
	errNoInput       = errors.New("no input: pass --data or pipe it on stdin")
)

// writeResult prints fields as one JSON object or as aligned key: value
// lines.
func writeResult(w io.Writer, format string, fields map[string]string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	}

	keys := make([]string, 0, len(fields))
	width := 0
	for k := range fields {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width+1, k+":", fields[k]); err != nil {
			return err
		}
	}
	return nil
}

// readInput returns data, "-" meaning stdin, or stdin when data is empty
// and stdin is not a terminal.
func readInput(data string, stdin io.Reader) ([]byte, error) {
	if data != "" && data != "-" {
		return []byte(data), nil
	}
	if data == "" {
		if f, ok := stdin.(*os.File); ok {
			if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
				return nil, errNoInput
			}
		}
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	b = []byte(strings.TrimRight(string(b), "\r\n"))
	if len(b) == 0 {
		return nil, errNoInput
	}
	return b, nil
}
