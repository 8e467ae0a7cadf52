package xorcrack

import "sort"

// KeyLengthCandidate is a guessed key length and its average normalized
// Hamming distance. Lower scores rank better.
type KeyLengthCandidate struct {
	Length int     `json:"length" yaml:"length"`
	Score  float64 `json:"score" yaml:"score"`
	Pairs  int     `json:"pairs" yaml:"pairs"`
}

// RankKeyLengths scores every length in [minLength, maxLength] and returns
// the candidates in ascending score order. Lengths that do not fit at least
// two full chunks in ciphertext are skipped.
func RankKeyLengths(ciphertext []byte, minLength, maxLength int) []KeyLengthCandidate {
	if minLength < 1 {
		minLength = 1
	}
	if maxLength > len(ciphertext)/2 {
		maxLength = len(ciphertext) / 2
	}

	candidates := make([]KeyLengthCandidate, 0, max(maxLength-minLength+1, 0))
	for k := minLength; k <= maxLength; k++ {
		score, pairs, ok := normalizedDistance(ciphertext, k)
		if !ok {
			continue
		}
		candidates = append(candidates, KeyLengthCandidate{Length: k, Score: score, Pairs: pairs})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score == candidates[j].Score {
			return candidates[i].Length < candidates[j].Length
		}
		return candidates[i].Score < candidates[j].Score
	})
	return candidates
}

// normalizedDistance averages HammingDistance/k over adjacent k-byte chunks.
func normalizedDistance(buf []byte, k int) (float64, int, bool) {
	chunks := len(buf) / k
	if chunks < 2 {
		return 0, 0, false
	}
	var sum float64
	for i := 0; i < chunks-1; i++ {
		a := buf[i*k : (i+1)*k]
		b := buf[(i+1)*k : (i+2)*k]
		sum += float64(HammingDistance(a, b)) / float64(k)
	}
	pairs := chunks - 1
	return sum / float64(pairs), pairs, true
}
