package session

func eloCoeff(elo int) int {
	if elo >= 2400 {
		return 10
	}
	if elo >= 2000 {
		return 20
	}
	return 40
}

// estimatePercent is the share of the trainee's moves that were found without a wrong answer.
func estimatePercent(playerMoves int, mistakes int) float64 {
	total := playerMoves + mistakes
	if total == 0 {
		return 0
	}
	return float64(playerMoves) / float64(total)
}

func estimateElo(playerElo int, playerMoves int, mistakes int) int {
	// by default we consider puzzle and player elo equal, so expected is always 0.5
	expectedPercent := 0.5

	coeff := eloCoeff(playerElo)

	percent := estimatePercent(playerMoves, mistakes)

	return playerElo + int(float64(coeff)*(percent-expectedPercent))
}

// playerMoves is the number of solution moves the trainee plays; the opponent plays the rest.
func playerMoves(solutionLength int) int {
	return (solutionLength + 1) / 2
}
