package registration

import (
	"crypto/rand"
	"math/big"
)

// 邀请码字母表：大写字母加数字，去掉易混淆的 0/O/1/I
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// 邀请码长度固定 8 位
const codeLength = 8

// 碰撞重试上限，32^8 空间下几乎不可能用尽，但必须兜底
const maxCodeAttempts = 10

// generateCode 生成一个 8 位邀请码
func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
