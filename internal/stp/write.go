package stp

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/stablepose/internal/pose"
)

const (
	bannerBorder = "#############################################################"
	bannerOrigin = "# STP file generated by UC Berkeley Automation Sciences Lab #"
	bannerEmpty  = "#                                                           #"

	// Pad widths that align the banner's trailing "#" column. The count of
	// padding spaces is the width minus the printed value's length.
	numPosesPadWidth = 46
	minProbPadWidth  = 40
)

// Write persists the poses whose probability is at least minProb, preserving
// their relative order. The file is written to the stored, already-validated
// path. The write is not atomic: a failure partway leaves a partial file.
func (f *File) Write(poses []pose.StablePose, minProb float64) error {
	var kept []pose.StablePose
	for _, sp := range poses {
		if sp.P >= minProb {
			kept = append(kept, sp)
		}
	}

	file, err := f.fs.Create(f.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.path, err)
	}

	w := bufio.NewWriter(file)
	writeBanner(w, len(kept), minProb)
	for _, sp := range kept {
		writeRecord(w, sp)
	}
	fmt.Fprint(w, "\n\n")

	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f.path, err)
	}
	return nil
}

func writeBanner(w *bufio.Writer, numPoses int, minProb float64) {
	fmt.Fprintf(w, "%s\n", bannerBorder)
	fmt.Fprintf(w, "%s\n", bannerOrigin)
	fmt.Fprintf(w, "%s\n", bannerEmpty)
	fmt.Fprintf(w, "# Num Poses: %d%s #\n", numPoses, pad(numPosesPadWidth, strconv.Itoa(numPoses)))
	prob := strconv.FormatFloat(minProb, 'g', -1, 64)
	fmt.Fprintf(w, "# Min Probability: %s%s #\n", prob, pad(minProbPadWidth, prob))
	fmt.Fprintf(w, "%s\n", bannerEmpty)
	fmt.Fprintf(w, "%s\n", bannerBorder)
	fmt.Fprint(w, "\n")
}

func writeRecord(w *bufio.Writer, sp pose.StablePose) {
	fmt.Fprintf(w, "p %f\n", sp.P)
	fmt.Fprintf(w, "r %f %f %f\n", sp.R[0][0], sp.R[0][1], sp.R[0][2])
	fmt.Fprintf(w, "  %f %f %f\n", sp.R[1][0], sp.R[1][1], sp.R[1][2])
	fmt.Fprintf(w, "  %f %f %f\n", sp.R[2][0], sp.R[2][1], sp.R[2][2])
	fmt.Fprintf(w, "x0 %f %f %f\n", sp.X0[0], sp.X0[1], sp.X0[2])
	fmt.Fprintf(w, "id %s\n", sp.ID)
}

// pad returns width minus len(value) spaces, or nothing when the value is
// too long to pad.
func pad(width int, value string) string {
	n := width - len(value)
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
