package session

// Complete reports whether every piece in [0, numPieces) is present
func Complete(numPieces int, has func(int) bool) bool {
	for i := 0; i < numPieces; i++ {
		if !has(i) {
			return false
		}
	}

	return true
}

// Missing counts the pieces in [0, numPieces) that are not present
func Missing(numPieces int, has func(int) bool) int {
	missing := 0
	for i := 0; i < numPieces; i++ {
		if !has(i) {
			missing++
		}
	}

	return missing
}
