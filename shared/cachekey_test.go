package shared_test

import (
	"salones/shared"
	"salones/shared/dto"
	"testing"
)

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{
			name:     "prefix only",
			prefix:   "room",
			parts:    nil,
			expected: "room",
		},
		{
			name:     "single identifier",
			prefix:   "room",
			parts:    []string{"room-1"},
			expected: "room:room-1",
		},
		{
			name:     "client address with user agent",
			prefix:   "rate_limit",
			parts:    []string{"10.0.0.5", "curl/8.4.0"},
			expected: "rate_limit:10.0.0.5:curl/8.4.0",
		},
		{
			name:     "empty part is kept as separator slot",
			prefix:   "reservation",
			parts:    []string{""},
			expected: "reservation:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shared.BuildCacheKey(tt.prefix, tt.parts...)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	filter := dto.FilterGroup{}

	first := shared.BuildCacheKeyWithQuery("material", params, filter)
	second := shared.BuildCacheKeyWithQuery("material", params, filter)
	if first != second {
		t.Errorf("expected identical keys for identical queries, got %q and %q", first, second)
	}

	other := shared.BuildCacheKeyWithQuery("material", dto.QueryParams{Page: 2, Limit: 10}, filter)
	if first == other {
		t.Errorf("expected distinct keys for distinct queries, both %q", first)
	}
}
