package stp

import (
	"bufio"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/banshee-data/stablepose/internal/pose"
)

// Read parses the file and returns its poses in file order. An empty file
// yields an empty slice. Structural or numeric errors abort the whole read
// with a *MalformedRecordError; a missing or unparsable id line is non-fatal
// and falls back to pose.DefaultID.
func (f *File) Read() ([]pose.StablePose, error) {
	file, err := f.fs.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	var lines [][]string
	scan := bufio.NewScanner(file)
	for scan.Scan() {
		lines = append(lines, strings.Fields(scan.Text()))
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	poses := []pose.StablePose{}
	for i := 0; i < len(lines); i++ {
		if len(lines[i]) == 0 || lines[i][0] != "p" {
			continue
		}

		sp, err := parseRecord(lines, i)
		if err != nil {
			return nil, err
		}
		poses = append(poses, sp)
	}
	return poses, nil
}

// parseRecord parses the 6-line block starting at the "p" line with index i.
// Line numbers in errors are 1-based.
func parseRecord(lines [][]string, i int) (pose.StablePose, error) {
	var sp pose.StablePose

	if i+4 >= len(lines) {
		return sp, &MalformedRecordError{
			Line:   i + 1,
			Reason: "pose block truncated before rotation and translation lines",
		}
	}

	p, err := parseFloatToken(lines[i], 1, i)
	if err != nil {
		return sp, err
	}
	sp.P = p

	// Only the first rotation row carries the "r" tag, so row 0 parses with
	// a one-token offset while rows 1 and 2 are bare triplets.
	if sp.R[0], err = parseTriplet(lines[i+1], 1, i+1); err != nil {
		return sp, err
	}
	if sp.R[1], err = parseTriplet(lines[i+2], 0, i+2); err != nil {
		return sp, err
	}
	if sp.R[2], err = parseTriplet(lines[i+3], 0, i+3); err != nil {
		return sp, err
	}

	if sp.X0, err = parseTriplet(lines[i+4], 1, i+4); err != nil {
		return sp, err
	}

	// The id line is optional. Fall back to the deterministic default when
	// it is absent or malformed; never reuse a previous record's value.
	sp.ID = pose.DefaultID
	if i+5 < len(lines) && len(lines[i+5]) >= 2 && lines[i+5][0] == "id" {
		sp.ID = lines[i+5][1]
	} else {
		log.Printf("no identifier in data at line %d, defaulting to %s", i+6, pose.DefaultID)
	}

	return sp, nil
}

// parseTriplet parses three floats from tokens starting at offset. The line
// index is 0-based and used only for error reporting.
func parseTriplet(tokens []string, offset, line int) ([3]float64, error) {
	var out [3]float64
	for k := 0; k < 3; k++ {
		v, err := parseFloatToken(tokens, offset+k, line)
		if err != nil {
			return out, err
		}
		out[k] = v
	}
	return out, nil
}

func parseFloatToken(tokens []string, idx, line int) (float64, error) {
	if idx >= len(tokens) {
		return 0, &MalformedRecordError{
			Line:   line + 1,
			Reason: fmt.Sprintf("expected numeric token at position %d, line has %d tokens", idx, len(tokens)),
		}
	}
	v, err := strconv.ParseFloat(tokens[idx], 64)
	if err != nil {
		return 0, &MalformedRecordError{
			Line:   line + 1,
			Reason: fmt.Sprintf("invalid numeric token %q", tokens[idx]),
			Err:    err,
		}
	}
	return v, nil
}
