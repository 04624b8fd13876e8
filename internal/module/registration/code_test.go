package registration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, codeLength)
		for _, r := range code {
			require.True(t, strings.ContainsRune(codeAlphabet, r), "非法字符: %c", r)
		}
	}
}

func TestGenerateCodeExcludesConfusables(t *testing.T) {
	// 字母表不包含易混淆字符
	for _, r := range "0O1I" {
		require.False(t, strings.ContainsRune(codeAlphabet, r))
	}
}

func TestGenerateCodeVariety(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// 32^8 的空间下 1000 个码不应出现碰撞
	require.Len(t, seen, 1000)
}
