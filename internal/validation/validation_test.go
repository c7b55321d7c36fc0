package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "alice", wantErr: false},
		{in: "Alice_99", wantErr: false},
		{in: "a.b.c", wantErr: false},
		{in: "ab", wantErr: true},
		{in: strings.Repeat("a", 31), wantErr: true},
		{in: "with space", wantErr: true},
		{in: "émile", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateUsername(NormalizeUsername(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestNormalizeUsername(t *testing.T) {
	if got := NormalizeUsername("  Alice_B "); got != "alice_b" {
		t.Errorf("NormalizeUsername() = %q, want alice_b", got)
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "runner@example.com", wantErr: false},
		{in: "", wantErr: true},
		{in: "runner", wantErr: true},
		{in: "Runner <runner@example.com>", wantErr: true},
		{in: strings.Repeat("a", 250) + "@x.io", wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "tr41l-runner-x", wantErr: false},
		{in: "short", wantErr: true},
		{in: strings.Repeat("z", 73), wantErr: true},
		{in: "MyPassword99", wantErr: true},
		{in: "qwerty-uiop", wantErr: true},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidateFile(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpeg := []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")

	tests := []struct {
		name     string
		data     []byte
		filename string
		wantType string
		wantErr  bool
	}{
		{name: "png", data: png, filename: "a.png", wantType: "image/png"},
		{name: "jpeg without extension", data: jpeg, filename: "blob", wantType: "image/jpeg"},
		{name: "extension mismatch is fine", data: jpeg, filename: "a.PNG", wantType: "image/jpeg"},
		{name: "empty", data: nil, filename: "a.png", wantErr: true},
		{name: "text", data: []byte("hello"), filename: "a.png", wantErr: true},
		{name: "bad extension", data: png, filename: "a.svg", wantErr: true},
		{name: "too large", data: append(append([]byte{}, png...), make([]byte, ImageConstraints.MaxSize)...), filename: "a.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFile(tt.data, tt.filename, ImageConstraints)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.wantType {
				t.Errorf("ValidateFile() type = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "  plain  ", want: "plain"},
		{in: "<script>alert(1)</script>hi", want: "hi"},
		{in: "<b>bold</b> & more", want: "bold & more"},
		{in: "   ", want: ""},
	}

	for _, tt := range tests {
		if got := SanitizeText(tt.in); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	blank := "<p></p>"
	if SanitizeOptional(&blank) != nil {
		t.Error("SanitizeOptional() kept a blank value")
	}
	if SanitizeOptional(nil) != nil {
		t.Error("SanitizeOptional(nil) != nil")
	}
}

func TestValidateStruct(t *testing.T) {
	type request struct {
		Username string `json:"username" validate:"required,username"`
		Privacy  string `json:"privacy" validate:"omitempty,oneof=public friends private"`
	}

	err := ValidateStruct(&request{Username: "Alice", Privacy: "public"})
	if err != nil {
		t.Fatalf("ValidateStruct(valid) error = %v", err)
	}

	err = ValidateStruct(&request{Username: "a b", Privacy: "secret"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("ValidateStruct() error = %v, want *RequestError", err)
	}
	if len(reqErr.Fields) != 2 {
		t.Fatalf("fields = %+v, want 2", reqErr.Fields)
	}
	if reqErr.Fields[0].Field != "username" || reqErr.Fields[1].Field != "privacy" {
		t.Errorf("field names = %q, %q; want json names", reqErr.Fields[0].Field, reqErr.Fields[1].Field)
	}
}
