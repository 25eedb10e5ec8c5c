package analytics

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestPIIScanner() *PIIScanner {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce log noise in tests
	return NewPIIScanner(logger)
}

func TestPIIScan(t *testing.T) {
	scanner := newTestPIIScanner()

	testCases := []struct {
		name     string
		input    string
		expected []PIIType
	}{
		{
			name:     "phone number with dashes",
			input:    "call 123-456-7890 now",
			expected: []PIIType{PIITypePhoneNumber},
		},
		{
			name:     "phone number without separators",
			input:    "reach me at 1234567890",
			expected: []PIIType{PIITypePhoneNumber},
		},
		{
			name:     "ssn claims the digits before pin can",
			input:    "my ssn is 456-78-9012",
			expected: []PIIType{PIITypeSSN},
		},
		{
			name:     "email address",
			input:    "contact john.doe@example.com today",
			expected: []PIIType{PIITypeEmail},
		},
		{
			name:     "credit card with dashes",
			input:    "card 4111-1111-1111-1111 on file",
			expected: []PIIType{PIITypeCreditCard},
		},
		{
			name:     "bare pin",
			input:    "my pin is 4321",
			expected: []PIIType{PIITypePIN},
		},
		{
			name:     "six digit pin",
			input:    "use code 123456 at the door",
			expected: []PIIType{PIITypePIN},
		},
		{
			name:     "date of birth is never classified as a pin",
			input:    "born on 01/02/1990",
			expected: []PIIType{PIITypeDateOfBirth},
		},
		{
			name:     "date of birth with dashes",
			input:    "dob 12-31-1985 on record",
			expected: []PIIType{PIITypeDateOfBirth},
		},
		{
			name:     "ip address",
			input:    "connecting from 192.168.10.1",
			expected: []PIIType{PIITypeIPAddress},
		},
		{
			name:     "multiple entities reported in catalog order",
			input:    "email a@b.com, pin 9876, born 01/02/1990",
			expected: []PIIType{PIITypeEmail, PIITypePIN, PIITypeDateOfBirth},
		},
		{
			name:     "no pii",
			input:    "thank you for calling, how can i help",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, scanner.Scan(tc.input))
		})
	}
}

func TestPIIMask(t *testing.T) {
	scanner := newTestPIIScanner()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "phone number uses the fixed token",
			input:    "call 123-456-7890 now",
			expected: "call ****-****-****-**** now",
		},
		{
			name:     "ssn always masks to the fixed shape",
			input:    "my ssn is 456-78-9012",
			expected: "my ssn is ***-**-****",
		},
		{
			name:     "email keeps first letter and domain",
			input:    "contact john.doe@example.com today",
			expected: "contact j****@example.com today",
		},
		{
			name:     "credit card",
			input:    "card 4111-1111-1111-1111 on file",
			expected: "card ****-****-****-**** on file",
		},
		{
			name:     "pin masks to matched length",
			input:    "my pin is 4321",
			expected: "my pin is ****",
		},
		{
			name:     "six digit pin masks six characters",
			input:    "use code 123456 at the door",
			expected: "use code ****** at the door",
		},
		{
			name:     "date of birth masks as a date, not a pin",
			input:    "born on 01/02/1990",
			expected: "born on **/**/****",
		},
		{
			name:     "ip address",
			input:    "connecting from 192.168.10.1",
			expected: "connecting from ***.***.***.***",
		},
		{
			name:     "surrounding text preserved across multiple masks",
			input:    "pin 9876, then email a@b.com.",
			expected: "pin ****, then email a****@b.com.",
		},
		{
			name:     "no pii passes through unchanged",
			input:    "thank you for calling, how can i help",
			expected: "thank you for calling, how can i help",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, scanner.Mask(tc.input))
		})
	}
}

// Detection and masking share one resolution pass, so every detected entity
// is redacted under its own rule and never under another entity's rule.
func TestPIIScanMaskConsistency(t *testing.T) {
	scanner := newTestPIIScanner()

	input := "ssn 456-78-9012, dob 01/02/1990, pin 55555"
	detected := scanner.Scan(input)
	assert.Equal(t, []PIIType{PIITypeSSN, PIITypePIN, PIITypeDateOfBirth}, detected)

	masked := scanner.Mask(input)
	assert.Equal(t, "ssn ***-**-****, dob **/**/****, pin *****", masked)
}
