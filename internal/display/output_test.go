package display

import (
	"bytes"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := Stdout, Stderr
	Stdout, Stderr = &out, &errOut
	t.Cleanup(func() { Stdout, Stderr = oldOut, oldErr })
	return &out, &errOut
}

func TestShowUsage(t *testing.T) {
	out, _ := captureOutput(t)
	ShowUsage()

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("usage has %d lines, want 2: %q", len(lines), out.String())
	}
	if lines[0] != "Use like:" {
		t.Errorf("first line = %q, want %q", lines[0], "Use like:")
	}
	if !strings.Contains(lines[1], "$ ") || !strings.Contains(lines[1], "x list s3 buckets") {
		t.Errorf("second line = %q, want example invocation", lines[1])
	}
}

func TestShowCommand(t *testing.T) {
	out, _ := captureOutput(t)
	ShowCommand("aws s3 ls")

	if !strings.Contains(out.String(), "aws s3 ls") {
		t.Errorf("ShowCommand() output = %q", out.String())
	}
	if strings.Count(out.String(), "\n") != 1 {
		t.Errorf("ShowCommand() should print one line, got %q", out.String())
	}
}

func TestShowError(t *testing.T) {
	out, errOut := captureOutput(t)
	ShowError("No suggestion found")

	if out.Len() != 0 {
		t.Errorf("ShowError() wrote to stdout: %q", out.String())
	}
	got := errOut.String()
	if !strings.Contains(got, "✖") || !strings.Contains(got, "No suggestion found") {
		t.Errorf("ShowError() output = %q", got)
	}
	if strings.Count(got, "\n") != 1 {
		t.Errorf("ShowError() should print one line, got %q", got)
	}
}

func TestSuggestionLabel(t *testing.T) {
	label := SuggestionLabel("aws s3 ls", "")
	for _, want := range []string{"aws s3 ls", "enter → run command", "space → new suggestion"} {
		if !strings.Contains(label, want) {
			t.Errorf("SuggestionLabel() = %q, missing %q", label, want)
		}
	}
	if strings.Contains(label, "\n") {
		t.Errorf("SuggestionLabel() must be a single line, got %q", label)
	}

	warned := SuggestionLabel("rm -rf /", "Potentially dangerous command")
	if !strings.Contains(warned, "Potentially dangerous command") {
		t.Errorf("SuggestionLabel() with warning = %q", warned)
	}
}

func TestStatusInfo_Markdown(t *testing.T) {
	md := StatusInfo{
		CredentialSource: "token file /home/u/.local/share/x/token",
		TokenFile:        "/home/u/.local/share/x/token",
		BaseURL:          "https://api.openai.com/v1",
		Model:            "gpt-3.5-turbo-instruct",
		Shell:            "/bin/zsh",
	}.Markdown()

	for _, want := range []string{"token file /home/u", "`gpt-3.5-turbo-instruct`", "`/bin/zsh`", "| Config file | _none_ |"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() missing %q:\n%s", want, md)
		}
	}

	missing := StatusInfo{}.Markdown()
	if !strings.Contains(missing, "run `x init`") {
		t.Errorf("Markdown() without credential should suggest init:\n%s", missing)
	}
}

func TestShowStatus(t *testing.T) {
	out, _ := captureOutput(t)
	ShowStatus(StatusInfo{Model: "m1", Shell: "/bin/sh"})

	if !strings.Contains(out.String(), "m1") {
		t.Errorf("ShowStatus() output missing model: %q", out.String())
	}
}

func TestSpinner_FailWritesLine(t *testing.T) {
	var buf bytes.Buffer
	sp := newSpinner("query", &buf)
	sp.Update("aws s3 ls", ColorGreen, PromptFrames)
	sp.Fail("No suggestion found")

	if !strings.Contains(buf.String(), "✖ No suggestion found") {
		t.Errorf("Fail() output = %q", buf.String())
	}
}

func TestSpinner_Succeed(t *testing.T) {
	var buf bytes.Buffer
	sp := newSpinner("Initializing...", &buf)
	sp.Succeed("Initialized")

	if !strings.Contains(buf.String(), "Initialized") {
		t.Errorf("Succeed() output = %q", buf.String())
	}
}
