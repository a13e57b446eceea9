// Package auth FSD登录认证相关的协作者实现
package auth

import (
	"encoding/binary"
	"encoding/hex"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/fsd"
	"github.com/thanhpk/randstr"
	"golang.org/x/crypto/blake2b"
	"sync"
)

const challengeLength = 16

// KeyedAuthenticator 基于blake2b密钥哈希的挑战应答
// 每次生成应答后内部状态前进, 通信双方按相同顺序调用即可保持同步
type KeyedAuthenticator struct {
	lock     sync.Mutex
	clientId uint16
	key      []byte
	state    []byte
}

func NewKeyedAuthenticator(clientId uint16, key string) *KeyedAuthenticator {
	keyBytes := []byte(key)
	if len(keyBytes) > blake2b.Size {
		sum := blake2b.Sum512(keyBytes)
		keyBytes = sum[:]
	}
	return &KeyedAuthenticator{
		clientId: clientId,
		key:      keyBytes,
	}
}

// NewAuthenticator 满足 fsd.AuthenticatorFactory
func NewAuthenticator(clientId uint16, key string) fsd.Authenticator {
	return NewKeyedAuthenticator(clientId, key)
}

var _ fsd.AuthenticatorFactory = NewAuthenticator

func (a *KeyedAuthenticator) ClientId() uint16 { return a.clientId }

func (a *KeyedAuthenticator) SetInitialChallenge(challenge string) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.state = []byte(challenge)
}

// GenerateChallenge challengeLength字节的随机数, 以十六进制表示
func (a *KeyedAuthenticator) GenerateChallenge() string {
	return hex.EncodeToString(randstr.Bytes(challengeLength))
}

func (a *KeyedAuthenticator) GenerateResponse(challenge string) string {
	a.lock.Lock()
	defer a.lock.Unlock()
	// 密钥长度已在构造时限制, New256不会失败
	hash, _ := blake2b.New256(a.key)
	var id [2]byte
	binary.BigEndian.PutUint16(id[:], a.clientId)
	hash.Write(id[:])
	hash.Write(a.state)
	hash.Write([]byte(challenge))
	sum := hash.Sum(nil)
	a.state = sum
	return hex.EncodeToString(sum)
}
