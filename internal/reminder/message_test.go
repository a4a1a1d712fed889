package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime12h(t *testing.T) {
	cases := map[string]string{
		"13:09:00": "1:09 PM",
		"00:05:00": "12:05 AM",
		"12:00:00": "12:00 PM",
		"09:30":    "9:30 AM",
		"23:59:59": "11:59 PM",
		"":         "12:00 AM",
	}
	for input, want := range cases {
		assert.Equal(t, want, FormatTime12h(input), "input=%q", input)
	}
}

func TestRenderMessage(t *testing.T) {
	sameDay := RenderMessage(TypeSameDay, "Maria", "Bantay", "1:09 PM", "")
	assert.Equal(t, "Hi Maria, this is PURRFECTCARE reminding you of Bantay's scheduled appointment TODAY at 1:09 PM. See you!", sameDay)

	dayBefore := RenderMessage(Type1D, "Maria", "Bantay", "9:30 AM", "")
	assert.Equal(t, "Hi Maria, this is PURRFECTCARE. Just a friendly reminder that Bantay has an appointment TOMORROW at 9:30 AM.", dayBefore)
}

func TestRenderMessageAppendsReason(t *testing.T) {
	msg := RenderMessage(Type1D, "Maria", "Bantay", "9:30 AM", "anti-rabies booster")
	assert.Contains(t, msg, "TOMORROW at 9:30 AM.")
	assert.Contains(t, msg, "Reason: anti-rabies booster.")
}
