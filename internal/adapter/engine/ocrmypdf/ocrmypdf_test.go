package ocrmypdf

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"docsearcher/internal/domain/document"
)

func TestBuildArgs(t *testing.T) {
	e := New("")
	opts := document.OCROptions{
		Language:        "eng",
		Deskew:          true,
		Optimize:        3,
		SkipText:        true,
		RotatePages:     true,
		RotateThreshold: 1.0,
		Timeout:         30 * time.Minute,
	}

	got := e.buildArgs("in.pdf", "out.pdf", opts)
	want := []string{
		"--language", "eng",
		"--deskew",
		"--optimize", "3",
		"--skip-text",
		"--rotate-pages",
		"--rotate-pages-threshold", "1",
		"--tesseract-timeout", "1800",
		"in.pdf", "out.pdf",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v\nwant %v", got, want)
	}
}

func TestBuildArgsMinimal(t *testing.T) {
	e := New("")
	got := e.buildArgs("in.pdf", "out.pdf", document.OCROptions{Language: "deu"})
	want := []string{"--language", "deu", "in.pdf", "out.pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestSummarize(t *testing.T) {
	execErr := errors.New("exit status 2")
	cases := []struct {
		name   string
		stderr string
		want   string
	}{
		{"last line wins", "INFO start\nERROR: PriorOcrFoundError", "ERROR: PriorOcrFoundError"},
		{"trailing blanks skipped", "something failed\n\n  \n", "something failed"},
		{"empty falls back", "", "exit status 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := summarize(tc.stderr, execErr); got != tc.want {
				t.Errorf("summarize = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewDefaultBinary(t *testing.T) {
	if New("").binary != "ocrmypdf" {
		t.Error("empty binary should default to ocrmypdf")
	}
	if New("/opt/bin/ocrmypdf").binary != "/opt/bin/ocrmypdf" {
		t.Error("explicit binary should be kept")
	}
}
