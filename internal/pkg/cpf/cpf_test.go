package cpf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "11144477735", Normalize("111.444.777-35"))
	assert.Equal(t, "11144477735", Normalize("11144477735"))
	assert.Equal(t, "", Normalize("abc-def"))
}

func TestValid_KnownGood(t *testing.T) {
	assert.True(t, Valid("111.444.777-35"))
	assert.True(t, Valid("11144477735"))
	assert.True(t, Valid("529.982.247-25"))
}

func TestValid_WrongCheckDigits(t *testing.T) {
	assert.False(t, Valid("11144477734"))
	assert.False(t, Valid("11144477745"))
}

func TestValid_RepeatedDigitsAlwaysInvalid(t *testing.T) {
	for d := 0; d <= 9; d++ {
		s := strings.Repeat(fmt.Sprintf("%d", d), 11)
		assert.False(t, Valid(s), "CPF %s must be invalid", s)
	}
}

func TestValid_WrongLength(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("1114447773"))
	assert.False(t, Valid("111444777350"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "111.444.777-35", Format("11144477735"))
	assert.Equal(t, "111.444.777-35", Format("111.444.777-35"))
	assert.Equal(t, "123", Format("123"))
}
