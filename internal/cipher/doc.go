// Package cipher provides the byte-level transformations used around XOR
// cryptanalysis: hex and Base64 codecs, repeating-key, single-byte and
// fixed XOR, and detection of how a ciphertext file is encoded.
//
// # Operations
//
// Every transformation implements Operation and is registered by name in
// the Default registry:
//
//	op, _ := cipher.GetOperation("hex_encode")
//	out, _ := op.Execute(ctx, []byte("ICE"), nil)
//	// out: []byte("494345")
//
// XOR operations take their key through params:
//
//	op, _ := cipher.GetOperation("repeating_xor")
//	ct, _ := op.Execute(ctx, plaintext, map[string]interface{}{"key": "ICE"})
//
// # Pipelines
//
// Operations chain into a Pipeline. A pipeline is reversible when every
// step has an inverse; XOR steps are their own inverse.
//
//	p := cipher.ParsePipeline([]string{"hex_decode", "base64_encode"}, nil)
//	b64, _ := p.Execute(ctx, []byte("49276d"))
//	back, _ := p.Reverse()
//
// # Input decoding
//
// DecodeInput turns a ciphertext file into bytes. With encoding "auto" the
// InputDetector ranks hex, Base64 and raw interpretations; hex wins over
// Base64 when the text is valid as both.
package cipher
