package store

import (
	"bufio"
	"os"
	"strings"
)

// UnknownName is returned for instruments missing from the name table.
const UnknownName = "未知"

// Names maps instrument codes to display names.
type Names map[string]string

// Resolve returns the display name for symbol, falling back to the bare code
// (exchange prefix stripped) and finally to UnknownName.
func (n Names) Resolve(symbol string) string {
	if name, ok := n[symbol]; ok {
		return name
	}
	if i := strings.LastIndexByte(symbol, '.'); i >= 0 {
		if name, ok := n[symbol[i+1:]]; ok {
			return name
		}
	}
	return UnknownName
}

// LoadNames reads a two-column code,name CSV (header optional). Short codes
// are zero-padded to six digits to match A-share conventions. A missing file
// yields an empty table rather than an error, so a run without a name table
// degrades to placeholder names.
func LoadNames(path string) (Names, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Names{}, nil
		}
		return nil, err
	}
	defer f.Close()

	names := make(Names)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) < 2 {
			continue
		}
		code := strings.TrimSpace(fields[0])
		name := strings.TrimSpace(fields[1])
		if code == "" || strings.EqualFold(code, "code") {
			continue // header or blank line
		}
		for len(code) < 6 {
			code = "0" + code
		}
		names[code] = name
	}
	return names, scanner.Err()
}
