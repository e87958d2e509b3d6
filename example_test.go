package textbookrsa_test

import (
	"fmt"
	"log"
	"math/big"

	"github.com/vaultsandbox/textbookrsa"
)

func Example() {
	// A seeded source keeps the example reproducible. Omit WithSource to
	// use crypto/rand.
	src, err := textbookrsa.NewDeterministicSource([]byte("example"), "doc")
	if err != nil {
		log.Fatal(err)
	}

	r := textbookrsa.New(textbookrsa.WithSource(src))
	if err := r.KeyGen(128, big.NewInt(textbookrsa.DefaultPublicExponent)); err != nil {
		log.Fatal(err)
	}

	kp, err := r.KeyPair()
	if err != nil {
		log.Fatal(err)
	}

	ciphertext, err := r.Encode("HELLO", kp.PublicExponent, kp.Modulus)
	if err != nil {
		log.Fatal(err)
	}

	plaintext, err := r.Decode(ciphertext, kp.PrivateExponent, kp.Modulus)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(plaintext)
	// Output: HELLO
}

func ExampleBlockSizes() {
	plain, cipher, err := textbookrsa.BlockSizes(big.NewInt(3233))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(plain, cipher)
	// Output: 2 2
}
