// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package authflow

import "testing"

func TestEmailError(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"", false},
		{"plainaddress", false},
		{"a@b", false},
		{"a@b.", false},
		{"@b.co", false},
		{"a@.co", false},
		{"a b@c.co", false},
		{"a@b@c.co", false},
		{"a@b.co", true},
		{"first.last@sub.example.com", true},
	}
	for _, test := range tests {
		t.Run(test.email, func(t *testing.T) {
			message := EmailError(test.email)
			if test.valid && message != "" {
				t.Errorf("EmailError(%q) = %q, want valid", test.email, message)
			}
			if !test.valid && message == "" {
				t.Errorf("EmailError(%q) accepted, want rejection", test.email)
			}
		})
	}
}

func TestPasswordError(t *testing.T) {
	if message := PasswordError(""); message != "Password is required" {
		t.Errorf("empty password: %q", message)
	}
	if message := PasswordError("12345"); message == "" {
		t.Error("5-character password accepted")
	}
	if message := PasswordError("123456"); message != "" {
		t.Errorf("6-character password rejected: %q", message)
	}
}

func TestNameError(t *testing.T) {
	if message := NameError(""); message == "" {
		t.Error("empty name accepted")
	}
	if message := NameError("   "); message == "" {
		t.Error("whitespace-only name accepted")
	}
	if message := NameError("A"); message == "" {
		t.Error("1-character name accepted")
	}
	if message := NameError("Al"); message != "" {
		t.Errorf("2-character name rejected: %q", message)
	}
}

func TestDegreeFileError(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		valid    bool
	}{
		{"missing", "", 0, false},
		{"pdf", "degree.pdf", 1024, true},
		{"uppercase extension", "DEGREE.PDF", 1024, true},
		{"jpeg", "scan.jpeg", 1024, true},
		{"executable", "degree.exe", 1024, false},
		{"no extension", "degree", 1024, false},
		{"at size limit", "degree.pdf", MaxDegreeSize, true},
		{"over size limit", "degree.pdf", MaxDegreeSize + 1, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			message := DegreeFileError(test.filename, test.size)
			if test.valid && message != "" {
				t.Errorf("DegreeFileError(%q, %d) = %q, want valid", test.filename, test.size, message)
			}
			if !test.valid && message == "" {
				t.Errorf("DegreeFileError(%q, %d) accepted, want rejection", test.filename, test.size)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	if err := ValidateLogin("a@b.co", "hunter22"); err != nil {
		t.Errorf("valid login rejected: %v", err)
	}
	if err := ValidateLogin("a@b", "hunter22"); err == nil || err.Field != "email" {
		t.Errorf("bad email: %v", err)
	}
	if err := ValidateLogin("a@b.co", ""); err == nil || err.Field != "password" {
		t.Errorf("empty password: %v", err)
	}
}

func TestValidateRegistration_DoctorNeedsDegree(t *testing.T) {
	if err := ValidateRegistration("Dr. Who", "who@clinic.example", "hunter22", true, "", 0); err == nil || err.Field != "degree" {
		t.Errorf("doctor without degree: %v", err)
	}
	if err := ValidateRegistration("Dr. Who", "who@clinic.example", "hunter22", true, "degree.pdf", 1024); err != nil {
		t.Errorf("valid doctor registration rejected: %v", err)
	}
}

func TestValidateRegistration_PatientIgnoresDegree(t *testing.T) {
	// A stray degree attachment on a patient form is not an error and
	// is simply not submitted.
	if err := ValidateRegistration("Pat", "pat@example.com", "hunter22", false, "degree.exe", MaxDegreeSize*2); err != nil {
		t.Errorf("patient with stray degree rejected: %v", err)
	}
}
