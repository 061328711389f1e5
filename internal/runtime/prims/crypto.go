// Cryptographic primitives (spec §4.4 "Crypto"). AES-GCM output is
// nonce||ciphertext (the nonce generated fresh per encrypt call and
// prepended, consumed back off the front on decrypt) since the primitive
// signature carries only a single String result, not a paired nonce.
package prims

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"

	"github.com/seqlang/seq/internal/runtime/stack"
)

func init() {
	register(mangle("crypto.sha256"), func(p *Proc) {
		v := p.Stack.Pop()
		sum := sha256.Sum256([]byte(asString(v)))
		releaseValue(v)
		p.Stack.Push(newString(string(sum[:])))
	})
	register(mangle("crypto.hmac-sha256"), func(p *Proc) {
		key, msg := p.Stack.Pop(), p.Stack.Pop()
		mac := hmac.New(sha256.New, []byte(asString(key)))
		mac.Write([]byte(asString(msg)))
		releaseValue(key)
		releaseValue(msg)
		p.Stack.Push(newString(string(mac.Sum(nil))))
	})
	register(mangle("crypto.aes-gcm-encrypt"), func(p *Proc) {
		key, plain := p.Stack.Pop(), p.Stack.Pop()
		gcm, err := newGCM(asString(key))
		if err != nil {
			releaseValue(key)
			releaseValue(plain)
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		nonce := make([]byte, gcm.NonceSize())
		if _, err := rand.Read(nonce); err != nil {
			releaseValue(key)
			releaseValue(plain)
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		sealed := gcm.Seal(nonce, nonce, []byte(asString(plain)), nil)
		releaseValue(key)
		releaseValue(plain)
		p.Stack.Push(newString(string(sealed)))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("crypto.aes-gcm-decrypt"), func(p *Proc) {
		key, sealed := p.Stack.Pop(), p.Stack.Pop()
		gcm, err := newGCM(asString(key))
		sealedBytes := []byte(asString(sealed))
		releaseValue(key)
		releaseValue(sealed)
		if err != nil || len(sealedBytes) < gcm.NonceSize() {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		nonce, ciphertext := sealedBytes[:gcm.NonceSize()], sealedBytes[gcm.NonceSize():]
		plain, err := gcm.Open(nil, nonce, ciphertext, nil)
		if err != nil {
			p.Stack.Push(newString(""))
			p.Stack.Push(stack.Bool(false))
			return
		}
		p.Stack.Push(newString(string(plain)))
		p.Stack.Push(stack.Bool(true))
	})
	register(mangle("crypto.pbkdf2"), func(p *Proc) {
		iterations, salt, password := p.Stack.Pop().AsInt(), p.Stack.Pop(), p.Stack.Pop()
		derived := pbkdf2.Key([]byte(asString(password)), []byte(asString(salt)), int(iterations), 32, sha256.New)
		releaseValue(salt)
		releaseValue(password)
		p.Stack.Push(newString(string(derived)))
	})
	register(mangle("crypto.ed25519-sign"), func(p *Proc) {
		key, msg := p.Stack.Pop(), p.Stack.Pop()
		sig := ed25519.Sign(ed25519.PrivateKey(asString(key)), []byte(asString(msg)))
		releaseValue(key)
		releaseValue(msg)
		p.Stack.Push(newString(string(sig)))
	})
	register(mangle("crypto.ed25519-verify"), func(p *Proc) {
		sig, key, msg := p.Stack.Pop(), p.Stack.Pop(), p.Stack.Pop()
		ok := ed25519.Verify(ed25519.PublicKey(asString(key)), []byte(asString(msg)), []byte(asString(sig)))
		releaseValue(sig)
		releaseValue(key)
		releaseValue(msg)
		p.Stack.Push(stack.Bool(ok))
	})
	register(mangle("crypto.uuid"), func(p *Proc) {
		p.Stack.Push(newString(uuid.NewString()))
	})
	register(mangle("crypto.random-bytes"), func(p *Proc) {
		n := p.Stack.Pop().AsInt()
		buf := make([]byte, n)
		_, _ = rand.Read(buf)
		p.Stack.Push(newString(string(buf)))
	})
}

func newGCM(key string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(normalizeAESKey(key))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// normalizeAESKey pads/truncates an arbitrary-length Seq String key to
// AES-256's 32-byte requirement, since the Seq-level signature takes a
// plain String key rather than exposing AES's three fixed key sizes.
func normalizeAESKey(key string) []byte {
	out := make([]byte, 32)
	copy(out, key)
	return out
}
