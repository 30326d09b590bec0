package aggregate

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"sigs.k8s.io/yaml"
)

// Diff renders the structural difference between two package.json
// documents. It returns an empty string when they are equal. An empty
// document is read as {}, so every field of the other shows up as added.
func Diff(previous, current []byte, useColor bool) (string, error) {
	if len(bytes.TrimSpace(previous)) == 0 && len(bytes.TrimSpace(current)) == 0 {
		return "", nil
	}

	from, err := parseInput("previous", previous)
	if err != nil {
		return "", fmt.Errorf("parsing previous package.json: %w", err)
	}
	to, err := parseInput("current", current)
	if err != nil {
		return "", fmt.Errorf("parsing current package.json: %w", err)
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", fmt.Errorf("comparing package.json: %w", err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}
	return renderReport(report, useColor)
}

// parseInput converts JSON to YAML and loads it as a dyff input file.
func parseInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		data = []byte("{}")
	}

	y, err := yaml.JSONToYAML(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}

	docs, err := ytbx.LoadYAMLDocuments(y)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}

func renderReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer

	w := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := w.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
