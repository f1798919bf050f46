// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefault(t *testing.T) {
	defer SetDefault(DiscardHandler())

	// created before any handler is installed
	logger := New("pkg", "staking")
	logger.Info("discarded")

	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(FromLegacyLevel(LegacyLevelInfo))
	SetDefault(JSONHandlerWithLevel(&buf, &level))

	logger.Debug("too verbose")
	assert.Zero(t, buf.Len())

	logger.Info("pool created", "id", 1, "size", big.NewInt(5000), "staked", uint256.NewInt(42))
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "pool created", record["msg"])
	assert.Equal(t, "staking", record["pkg"])
	assert.Equal(t, "5000", record["size"])
	assert.Equal(t, "42", record["staked"])
	assert.Equal(t, "info", record["lvl"])
	assert.Contains(t, record, "t")

	buf.Reset()
	level.Set(FromLegacyLevel(LegacyLevelDebug))
	logger.With("pool", 0).Debug("settled")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "settled", record["msg"])
	assert.Equal(t, float64(0), record["pool"])
}

func TestLogfmtHandler(t *testing.T) {
	defer SetDefault(DiscardHandler())

	var buf bytes.Buffer
	var level slog.LevelVar
	SetDefault(LogfmtHandlerWithLevel(&buf, &level))

	var nilInt *big.Int
	Warn("low balance", "amount", nilInt)
	assert.Contains(t, buf.String(), "lvl=warn")
	assert.Contains(t, buf.String(), "amount=<nil>")
}

func TestTerminalHandlerLevel(t *testing.T) {
	defer SetDefault(DiscardHandler())

	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(FromLegacyLevel(LegacyLevelWarn))
	SetDefault(NewTerminalHandlerWithLevel(&buf, &level, false))

	logger := New("pkg", "runtime")
	logger.Info("call executed")
	assert.Zero(t, buf.Len())

	logger.Warn("call reverted", "reason", "exceed pool limit")
	assert.Contains(t, buf.String(), "call reverted")
	assert.Contains(t, buf.String(), "pkg=runtime")

	// lowered while installed
	buf.Reset()
	level.Set(FromLegacyLevel(LegacyLevelInfo))
	logger.Info("call executed")
	assert.Contains(t, buf.String(), "call executed")
}
