package inline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBookingURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		company string
		branch  string
		wantErr bool
	}{
		{
			name:    "plain link",
			raw:     "https://inline.app/booking/-ML2ClCSWqvYXVKATF3k/-ORZoK_x9823z1fLmVvO",
			company: "-ML2ClCSWqvYXVKATF3k",
			branch:  "-ORZoK_x9823z1fLmVvO",
		},
		{
			name:    "branch with query string",
			raw:     "https://inline.app/booking/c1/b1?language=zh-tw&flow=search",
			company: "c1",
			branch:  "b1",
		},
		{
			name:    "trailing path segments ignored",
			raw:     "https://inline.app/booking/c1/b1/extra",
			company: "c1",
			branch:  "b1",
		},
		{
			name:    "no booking segment",
			raw:     "https://inline.app/reservation/c1/b1",
			wantErr: true,
		},
		{
			name:    "missing branch segment",
			raw:     "https://inline.app/booking/c1",
			wantErr: true,
		},
		{
			name:    "empty branch segment",
			raw:     "https://inline.app/booking/c1/",
			wantErr: true,
		},
		{
			name:    "empty branch via query only",
			raw:     "https://inline.app/booking/c1/?x=1",
			wantErr: true,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company, branch, err := ParseBookingURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBookingURL)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.company, company)
			assert.Equal(t, tt.branch, branch)
		})
	}
}
