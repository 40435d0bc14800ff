package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
)

var (
	codenameAdjectives = []string{
		"Shadow", "Silent", "Dark", "Golden", "Iron",
		"Ghost", "Neon", "Swift", "Crimson", "Cold",
	}
	codenameNouns = []string{
		"Fox", "Wolf", "Falcon", "Specter", "Blade",
		"Hunter", "Raven", "Viper", "Knight", "Storm",
	}
)

// RandomUint32 生成一个安全的随机32位无符号整数
func RandomUint32() uint32 {
	var num uint32
	if err := binary.Read(rand.Reader, binary.BigEndian, &num); err != nil {
		panic("generate random uint32 failed")
	}
	return num
}

// RandomIndex 返回 [0, n) 范围内的随机下标
func RandomIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return int(RandomUint32() % uint32(n))
}

// RandomCodename 生成形如 "Shadow Fox" 的随机代号
func RandomCodename() string {
	return codenameAdjectives[RandomIndex(len(codenameAdjectives))] + " " +
		codenameNouns[RandomIndex(len(codenameNouns))]
}

// RandomToken 生成 n 字节随机数的十六进制字符串
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
