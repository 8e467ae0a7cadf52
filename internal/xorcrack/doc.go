// Package xorcrack breaks single-byte and repeating-key XOR ciphertexts.
//
// # Overview
//
// The pipeline has three stages:
//   - RankKeyLengths guesses the key length from the normalized Hamming
//     distance between adjacent ciphertext chunks (lower is more likely).
//   - Transpose groups the ciphertext by key column, so every group was
//     encrypted with a single key byte.
//   - Scorer.BestKey recovers each column's key byte by scoring candidate
//     plaintexts against a reference frequency model.
//
// Breaker ties the stages together:
//
//	reference := corpus.English(freq.AlphabetBytes)
//	b := xorcrack.NewBreaker(xorcrack.NewScorer(reference, xorcrack.KeyspaceFull))
//	res, err := b.Break(ctx, ciphertext)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("key=%q\n%s\n", res.Key.Key, res.Plaintext)
//
// # Keyspace
//
// The full byte range is scanned by default since repeating-key XOR keys are
// arbitrary bytes. KeyspacePrintable narrows the scan to 1-127.
//
// # Thread Safety
//
// Every function is pure. A Scorer and a Breaker may be shared between
// goroutines once constructed.
package xorcrack
