package casing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"photoUrl":     "photo_url",
		"photoURL":     "photo_url",
		"roomId":       "room_id",
		"createdAt":    "created_at",
		"name":         "name",
		"reportDay":    "report_day",
		"already_done": "already_done",
		"":             "",
	}
	for in, want := range cases {
		require.Equal(t, want, ToSnake(in), "ToSnake(%q)", in)
	}
}

func TestToCamel(t *testing.T) {
	cases := map[string]string{
		"photo_url":  "photoUrl",
		"room_id":    "roomId",
		"created_at": "createdAt",
		"name":       "name",
		"photoUrl":   "photoUrl",
		"":           "",
	}
	for in, want := range cases {
		require.Equal(t, want, ToCamel(in), "ToCamel(%q)", in)
	}
}

func TestSnakeKeysNested(t *testing.T) {
	in := map[string]any{
		"projectId": float64(3),
		"rooms": []any{
			map[string]any{"roomId": float64(1), "createdAt": "2024-01-02"},
			map[string]any{"roomId": float64(2), "description": nil},
		},
		"reportSettings": map[string]any{
			"sendWhatsapp": true,
			"reportDay":    "monday",
		},
	}

	got := SnakeKeys(in)
	want := map[string]any{
		"project_id": float64(3),
		"rooms": []any{
			map[string]any{"room_id": float64(1), "created_at": "2024-01-02"},
			map[string]any{"room_id": float64(2), "description": nil},
		},
		"report_settings": map[string]any{
			"send_whatsapp": true,
			"report_day":    "monday",
		},
	}
	require.Equal(t, want, got)
}

// CamelKeys(SnakeKeys(x)) == x for compliant key names.
func TestRoundTrip(t *testing.T) {
	in := map[string]any{
		"tasks": []any{
			map[string]any{
				"id":     float64(1),
				"roomId": float64(2),
				"status": "inProgress",
				"nested": map[string]any{"dueDate": nil},
			},
		},
		"progress": float64(50),
		"note":     "snake_case values are left alone",
	}
	require.Equal(t, in, CamelKeys(SnakeKeys(in)))
}

func TestIdempotent(t *testing.T) {
	in := map[string]any{
		"photoUrl": "https://example.com/a.jpg",
		"items":    []any{map[string]any{"roomId": float64(1)}},
	}
	once := SnakeKeys(in)
	require.Equal(t, once, SnakeKeys(once))

	back := CamelKeys(once)
	require.Equal(t, back, CamelKeys(back))
}

func TestScalarsUnchanged(t *testing.T) {
	require.Nil(t, SnakeKeys(nil))
	require.Equal(t, "someValue", SnakeKeys("someValue"))
	require.Equal(t, 42, CamelKeys(42))
	require.Equal(t, true, CamelKeys(true))
}
