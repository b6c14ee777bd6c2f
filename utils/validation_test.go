package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"+1234567890", "1234567890", "+1 (234) 567-890", "+380 50 123 45 67", "+1.555.010.0199"}
	for _, phone := range valid {
		assert.True(t, ValidatePhone(phone), phone)
	}

	invalid := []string{"", "+0123456789", "phone", "+1234567890123456", "12-ab-34"}
	for _, phone := range invalid {
		assert.False(t, ValidatePhone(phone), phone)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "John.Doe@example.com", NormalizeEmail(" John.Doe@EXAMPLE.com "))
	assert.Equal(t, "not-an-email", NormalizeEmail("not-an-email"))
}

func TestDay(t *testing.T) {
	kyiv, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Skip("tzdata not available")
	}

	late := time.Date(2026, 10, 14, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-14", Day(late, nil))
	assert.Equal(t, "2026-10-15", Day(late, kyiv))

	assert.True(t, ValidDay("2026-10-14"))
	assert.False(t, ValidDay("2026-13-01"))
	assert.False(t, ValidDay("14.10.2026"))
}
