package main

import (
	"bytes"
	"errors"
	"io"
	"testing"

	apperrors "sha2-go/internal/errors"
	"sha2-go/internal/hexcodec"
)

const shaOfABC = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func execute(t *testing.T, argv ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(argv)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDigestInput(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		asHex bool
		want  string
	}{
		{name: "text", data: "abc", want: shaOfABC},
		{name: "hex", data: "616263", asHex: true, want: shaOfABC},
		{name: "hex with newline", data: "616263\n", asHex: true, want: shaOfABC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := digestInput([]byte(tt.data), tt.asHex, "")
			if err != nil {
				t.Fatalf("digestInput() error = %v", err)
			}
			if d.String() != tt.want {
				t.Errorf("digestInput() = %s, want %s", d, tt.want)
			}
		})
	}

	t.Run("bad hex", func(t *testing.T) {
		_, err := digestInput([]byte("61626"), true, "")
		if !errors.Is(err, hexcodec.ErrOddLength) {
			t.Errorf("digestInput() error = %v, want %v", err, hexcodec.ErrOddLength)
		}
	})

	t.Run("tag changes digest", func(t *testing.T) {
		d, err := digestInput([]byte("abc"), false, "webcashwalletv1")
		if err != nil {
			t.Fatalf("digestInput() error = %v", err)
		}
		if d.String() == shaOfABC {
			t.Error("tagged digest equals plain digest")
		}
	})
}

func TestOpenInput_RefusesTerminal(t *testing.T) {
	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return true }
	t.Cleanup(func() { stdinIsTerminal = orig })

	if _, err := openInput(""); !errors.Is(err, apperrors.ErrUsage) {
		t.Errorf("openInput(\"\") error = %v, want %v", err, apperrors.ErrUsage)
	}
	if _, err := textOrStdin(nil); !errors.Is(err, apperrors.ErrUsage) {
		t.Errorf("textOrStdin(nil) error = %v, want %v", err, apperrors.ErrUsage)
	}
}

func TestTextOrStdin_JoinsArgs(t *testing.T) {
	got, err := textOrStdin([]string{"hello", "world"})
	if err != nil {
		t.Fatalf("textOrStdin() error = %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("textOrStdin() = %q, want %q", got, "hello world")
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		want     string
		wantCode int
	}{
		{name: "hash", argv: []string{"hash", "abc"}, want: shaOfABC + "\n"},
		{name: "hex encode", argv: []string{"hex", "encode", "abc"}, want: "616263\n"},
		{name: "hex decode", argv: []string{"hex", "decode", "616263"}, want: "abc"},
		{name: "hex decode invalid", argv: []string{"hex", "decode", "zz"}, wantCode: 2},
		{name: "hex decode too many args", argv: []string{"hex", "decode", "00", "11"}, wantCode: 2},
		{name: "unknown flag", argv: []string{"hash", "--nope"}, wantCode: 2},
		{name: "selftest", argv: []string{"selftest"}, want: "ok\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.argv...)
			if code := apperrors.ExitCode(err); code != tt.wantCode {
				t.Fatalf("exit code = %d (err %v), want %d", code, err, tt.wantCode)
			}
			if tt.wantCode == 0 && got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
