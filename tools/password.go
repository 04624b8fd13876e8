package tools

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordEncrypt 使用 bcrypt 加密密码
func PasswordEncrypt(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PasswordCompare 校验明文密码与加密密码是否一致
func PasswordCompare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
