package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reverig/internal/domain"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    domain.PresenceResult
		wantErr bool
	}{
		{name: "object", raw: `{"success":true,"exists":true}`, want: domain.PresenceResult{Success: true, Exists: true}},
		{name: "string encoded", raw: `"{\"success\":true,\"exists\":false}"`, want: domain.PresenceResult{Success: true}},
		{name: "padded", raw: "  \n{\"success\":false,\"error\":\"nope\"} ", want: domain.PresenceResult{Error: "nope"}},
		{name: "null", raw: `null`},
		{name: "empty", raw: ``},
		{name: "string null", raw: `"null"`},
		{name: "empty string", raw: `""`},
		{name: "garbage", raw: `{not json`, wantErr: true},
		{name: "string garbage", raw: `"{not json"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got domain.PresenceResult
			err := Decode(json.RawMessage(tt.raw), &got)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeStatusState(t *testing.T) {
	t.Parallel()

	raw := `"{\"success\":true,\"state\":{\"status\":\"downloading\",\"currentApi\":\"mirror-2\",\"bytesRead\":50,\"totalBytes\":100}}"`

	var got domain.StatusResult
	require.NoError(t, Decode(json.RawMessage(raw), &got))

	assert.True(t, got.Success)
	assert.Equal(t, domain.StatusDownloading, got.State.Status)
	assert.Equal(t, "mirror-2", got.State.CurrentAPI)
	assert.Equal(t, 50, got.State.Percent())
}
