package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorCheckCond(t *testing.T) {
	v := newValidator()
	v.checkCond(true, "a", "should not appear")
	assert.False(t, v.hasErrors())

	v.checkCond(false, "a", "first message wins")
	v.checkCond(false, "a", "second message ignored")
	assert.True(t, v.hasErrors())
	assert.Equal(t, "first message wins", v.errors["a"])
}

func TestValidatorCheckEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid", "alice@example.com", true},
		{"valid with subdomain", "alice@mail.example.co.uk", true},
		{"empty", "", false},
		{"missing at", "alice.example.com", false},
		{"missing domain", "alice@", false},
		{"too long", strings.Repeat("a", 200) + "@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator()
			v.checkEmail(tt.email)
			assert.Equal(t, tt.valid, !v.hasErrors())
		})
	}
}

func TestValidatorCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid", "correct-horse", true},
		{"empty", "", false},
		{"too short", "short", false},
		{"exactly 8", "12345678", true},
		{"exactly 72", strings.Repeat("x", 72), true},
		{"too long", strings.Repeat("x", 73), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator()
			v.checkPassword(tt.password)
			assert.Equal(t, tt.valid, !v.hasErrors())
		})
	}
}

func TestValidatorCheckTitle(t *testing.T) {
	v := newValidator()
	v.checkTitle("groceries")
	assert.False(t, v.hasErrors())

	v = newValidator()
	v.checkTitle("")
	assert.Equal(t, "must be provided", v.errors["title"])

	v = newValidator()
	v.checkTitle(strings.Repeat("t", 201))
	assert.Equal(t, "must be atmost 200 characters long", v.errors["title"])
}
