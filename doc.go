// Package textbookrsa implements RSA from first principles: Miller-Rabin
// prime generation, key derivation through the extended Euclidean
// algorithm, and a block codec built on modular exponentiation.
//
// It is a reference implementation of the RSA primitive, not a production
// cryptosystem. There is no padding scheme, so encryption is deterministic
// and malleable, and arithmetic is not constant time. Use crypto/rsa for
// anything that protects real data.
//
// Basic usage:
//
//	r := textbookrsa.New()
//	if err := r.KeyGen(128, big.NewInt(65537)); err != nil {
//	    log.Fatal(err)
//	}
//
//	e, _ := r.PublicExponent()
//	d, _ := r.PrivateExponent()
//	n, _ := r.Modulus()
//
//	ciphertext, err := r.Encode("HELLO", e, n)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	plaintext, err := r.Decode(ciphertext, d, n)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(plaintext) // HELLO
//
// Ciphertext returned by Encode is a string holding raw bytes, one
// fixed-width block per plaintext block. Encode it (for example with
// encoding/base64) before printing or transmitting it.
package textbookrsa
