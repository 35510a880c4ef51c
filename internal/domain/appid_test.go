package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppIDFromURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		url     string
		want    AppID
		wantErr bool
	}{
		{"store page", "https://store.steampowered.com/app/440/Team_Fortress_2/", 440, false},
		{"community hub", "https://steamcommunity.com/app/730", 730, false},
		{"query string", "https://store.steampowered.com/app/570?snr=1_4", 570, false},
		{"other page", "https://store.steampowered.com/explore/", 0, true},
		{"http scheme", "http://store.steampowered.com/app/440", 0, true},
		{"zero id", "https://store.steampowered.com/app/0", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := AppIDFromURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAppID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAppID(t *testing.T) {
	t.Parallel()
	id, err := ParseAppID(" 440 ")
	require.NoError(t, err)
	assert.Equal(t, AppID(440), id)

	id, err = ParseAppID("https://store.steampowered.com/app/620/")
	require.NoError(t, err)
	assert.Equal(t, AppID(620), id)

	_, err = ParseAppID("abc")
	assert.ErrorIs(t, err, ErrInvalidAppID)

	_, err = ParseAppID("-3")
	assert.ErrorIs(t, err, ErrInvalidAppID)
}

func TestMode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ModeRemove, ParseMode("remove"))
	assert.Equal(t, ModeAdd, ParseMode("add"))
	assert.Equal(t, ModeAdd, ParseMode(""))
	assert.Equal(t, "Add via reverig-tool", ModeAdd.Label())
	assert.Equal(t, "Remove via reverig-tool", ModeRemove.Label())
}
