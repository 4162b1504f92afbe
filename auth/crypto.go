// Copyright 2026 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/voxline/gspeech/internal/bigint"
)

const (
	tagInteger     byte = 0x02
	tagOctetString byte = 0x04
	tagNull        byte = 0x05
	tagOID         byte = 0x06
	tagSequence    byte = 0x30
)

// DER encoding of the rsaEncryption object identifier (1.2.840.113549.1.1.1).
var oidRSAEncryption = []byte{0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01}

// DER encoding of the DigestInfo prefix for SHA-256 (RFC 8017, section 9.2, note 1).
var sha256DigestInfoPrefix = []byte{
	0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
}

// ErrKeyTooSmall is returned when an RSA modulus is too short to hold a PKCS#1 v1.5 encoded
// SHA-256 digest.
var ErrKeyTooSmall = errors.New("rsa key too small for PKCS#1 v1.5 padding with SHA-256")

// privateKey is the RSA key material needed to produce a signature. Both fields are unsigned
// big-endian integers without leading zero bytes.
type privateKey struct {
	modulus  []byte
	exponent []byte
}

// size returns the length of a signature made with k, in bytes.
func (k *privateKey) size() int {
	return len(k.modulus)
}

// parsePrivateKey decodes the RSA private key from a PEM document holding either a PKCS#1
// RSAPrivateKey or a PKCS#8 PrivateKeyInfo.
func parsePrivateKey(pemText string) (*privateKey, error) {
	der, err := extractDER(pemText)
	if err != nil {
		return nil, err
	}
	return parseDERPrivateKey(der)
}

// extractDER returns the base64-decoded body of the first PRIVATE KEY block in pemText. Any label
// ending in PRIVATE KEY is accepted. Escaped line breaks (a literal backslash followed by n) and
// CRLF line endings are treated as plain newlines.
func extractDER(pemText string) ([]byte, error) {
	pemText = strings.ReplaceAll(pemText, `\n`, "\n")
	var body strings.Builder
	inKey, found := false, false
	for _, line := range strings.Split(pemText, "\n") {
		line = strings.TrimSpace(line)
		if !inKey {
			if strings.Contains(line, "BEGIN") && strings.Contains(line, "PRIVATE KEY") {
				inKey, found = true, true
			}
			continue
		}
		if strings.Contains(line, "END") && strings.Contains(line, "PRIVATE KEY") {
			break
		}
		body.WriteString(line)
	}
	if !found {
		return nil, errors.New("no PRIVATE KEY block found in PEM data")
	}

	der, err := base64.StdEncoding.DecodeString(body.String())
	if err != nil {
		return nil, fmt.Errorf("failed to decode PEM base64: %v", err)
	}
	return der, nil
}

// parseDERPrivateKey walks the DER structure of an RSA private key and returns its modulus and
// private exponent.
//
// A SEQUENCE immediately following the version INTEGER is taken to be the AlgorithmIdentifier of
// a PKCS#8 wrapper; anything else is read as a bare PKCS#1 key.
func parseDERPrivateKey(der []byte) (*privateKey, error) {
	r := &derReader{data: der}
	if _, err := r.enter(tagSequence); err != nil {
		return nil, err
	}
	if _, err := r.readInteger(); err != nil {
		return nil, err
	}

	if r.peek() == int(tagSequence) {
		if err := r.skipAlgorithmIdentifier(); err != nil {
			return nil, err
		}
		if _, err := r.enter(tagOctetString); err != nil {
			return nil, err
		}
		if _, err := r.enter(tagSequence); err != nil {
			return nil, err
		}
		if _, err := r.readInteger(); err != nil {
			return nil, err
		}
	}

	n, err := r.readInteger()
	if err != nil {
		return nil, err
	}
	if _, err := r.readInteger(); err != nil {
		return nil, err
	}
	d, err := r.readInteger()
	if err != nil {
		return nil, err
	}
	return &privateKey{modulus: n, exponent: d}, nil
}

// derReader reads DER tag-length-value items from a byte slice. Every read is bounds checked;
// malformed or truncated input results in an error.
type derReader struct {
	data []byte
	pos  int
}

func (r *derReader) peek() int {
	if r.pos >= len(r.data) {
		return -1
	}
	return int(r.data[r.pos])
}

// readLength reads a definite-form DER length.
func (r *derReader) readLength() (int, error) {
	if r.pos >= len(r.data) {
		return 0, errors.New("unexpected end of DER data")
	}
	first := r.data[r.pos]
	r.pos++
	if first&0x80 == 0 {
		return int(first), nil
	}

	count := int(first & 0x7f)
	if count == 0 {
		return 0, errors.New("indefinite DER length not supported")
	}
	if count > 4 {
		return 0, fmt.Errorf("DER length of %d bytes not supported", count)
	}
	if r.pos+count > len(r.data) {
		return 0, errors.New("invalid DER length encoding")
	}
	length := 0
	for i := 0; i < count; i++ {
		length = length<<8 | int(r.data[r.pos])
		r.pos++
	}
	if length < 0 {
		return 0, errors.New("DER length overflows int")
	}
	return length, nil
}

// enter consumes the tag and length of the next item, positioning the reader at the start of its
// contents, and returns the content length.
func (r *derReader) enter(tag byte) (int, error) {
	if r.pos >= len(r.data) || r.data[r.pos] != tag {
		return 0, fmt.Errorf("expected DER tag 0x%02x", tag)
	}
	r.pos++
	length, err := r.readLength()
	if err != nil {
		return 0, err
	}
	if length > len(r.data)-r.pos {
		return 0, fmt.Errorf("DER item with tag 0x%02x extends beyond data", tag)
	}
	return length, nil
}

// next consumes an entire item with the given tag and returns its contents.
func (r *derReader) next(tag byte) ([]byte, error) {
	length, err := r.enter(tag)
	if err != nil {
		return nil, err
	}
	contents := r.data[r.pos : r.pos+length]
	r.pos += length
	return contents, nil
}

// readInteger reads an INTEGER and returns its magnitude with leading zero bytes removed. A zero
// value is returned as a single zero byte.
func (r *derReader) readInteger() ([]byte, error) {
	b, err := r.next(tagInteger)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, errors.New("empty DER integer")
	}
	for len(b) > 1 && b[0] == 0 {
		b = b[1:]
	}
	return b, nil
}

// skipAlgorithmIdentifier consumes a PKCS#8 AlgorithmIdentifier: an OID followed by optional
// NULL parameters.
func (r *derReader) skipAlgorithmIdentifier() error {
	length, err := r.enter(tagSequence)
	if err != nil {
		return err
	}
	end := r.pos + length

	oid, err := r.next(tagOID)
	if err != nil {
		return err
	}
	if !bytes.Equal(oid, oidRSAEncryption) {
		return fmt.Errorf("unsupported private key algorithm: OID %x", oid)
	}
	if r.pos < end && r.peek() == int(tagNull) {
		if _, err := r.next(tagNull); err != nil {
			return err
		}
	}
	if r.pos > end {
		return errors.New("malformed DER AlgorithmIdentifier")
	}
	r.pos = end
	return nil
}

// emsaPKCS1v15Encode builds the k-byte EMSA-PKCS1-v1_5 encoding of a SHA-256 digest (RFC 8017,
// section 9.2):
//
//	EM = 0x00 || 0x01 || PS || 0x00 || DigestInfo
//
// where PS is a run of 0xff bytes.
func emsaPKCS1v15Encode(hashed []byte, k int) ([]byte, error) {
	tLen := len(sha256DigestInfoPrefix) + len(hashed)
	if k < tLen+11 {
		return nil, ErrKeyTooSmall
	}

	em := make([]byte, k)
	em[1] = 0x01
	psLen := k - tLen - 3
	for i := 0; i < psLen; i++ {
		em[2+i] = 0xff
	}
	copy(em[3+psLen:], sha256DigestInfoPrefix)
	copy(em[3+psLen+len(sha256DigestInfoPrefix):], hashed)
	return em, nil
}

// signPKCS1v15SHA256 computes the RSASSA-PKCS1-v1_5 signature of data with SHA-256. The result is
// always exactly key.size() bytes long.
func signPKCS1v15SHA256(key *privateKey, data []byte) ([]byte, error) {
	hashed := sha256.Sum256(data)
	k := key.size()
	em, err := emsaPKCS1v15Encode(hashed[:], k)
	if err != nil {
		return nil, err
	}

	s := bigint.ModPow(bigint.FromBytes(em), bigint.FromBytes(key.exponent), bigint.FromBytes(key.modulus))
	sb := s.Bytes()
	if len(sb) > k {
		return nil, errors.New("rsa signature larger than modulus")
	}
	sig := make([]byte, k)
	copy(sig[k-len(sb):], sb)
	return sig, nil
}
