package analytics

// speakingRatioEpsilon guards the ratio against a zero agent talk time.
const speakingRatioEpsilon = 1e-6

// AnalyzeInteraction derives speaker-interaction metrics from a diarized
// turn sequence ordered by start time.
//
// The two dominant speakers are chosen by total talk time: the speaker with
// the most accumulated time is treated as the agent, the one with the least
// as the customer. With three or more speakers, everyone between those two
// extremes is ignored; multi-party conversations are not modeled. When fewer
// than two distinct speakers appear, the degenerate record
// {SpeakingRatio: 1.0, Interruptions: 0, TTFT: 0.0} is returned.
//
// An interruption is counted for every adjacent turn pair where the agent's
// turn starts strictly before the preceding customer turn has ended. TTFT is
// the average gap between a customer turn ending and the agent's next turn
// starting, over all such adjacent pairs; gaps are negative when the agent
// overlaps the customer.
func AnalyzeInteraction(turns []SpeakerTurn) InteractionMetrics {
	talkTime := make(map[string]float64)
	for _, turn := range turns {
		talkTime[turn.SpeakerID] += turn.Duration()
	}

	if len(talkTime) < 2 {
		return InteractionMetrics{SpeakingRatio: 1.0, Interruptions: 0, TTFT: 0.0}
	}

	// Ties are broken lexicographically, in opposite directions for the two
	// roles, so two speakers with identical talk time still map to distinct
	// customer and agent assignments.
	var customer, agent string
	for speaker, total := range talkTime {
		if customer == "" || total < talkTime[customer] || (total == talkTime[customer] && speaker > customer) {
			customer = speaker
		}
		if agent == "" || total > talkTime[agent] || (total == talkTime[agent] && speaker < agent) {
			agent = speaker
		}
	}

	ratio := round2(talkTime[customer] / (talkTime[agent] + speakingRatioEpsilon))

	interruptions := 0
	var gaps []float64
	for i := 1; i < len(turns); i++ {
		prev, cur := turns[i-1], turns[i]
		if prev.SpeakerID != customer || cur.SpeakerID != agent {
			continue
		}
		if cur.Start < prev.End {
			interruptions++
		}
		gaps = append(gaps, cur.Start-prev.End)
	}

	ttft := 0.0
	if len(gaps) > 0 {
		sum := 0.0
		for _, g := range gaps {
			sum += g
		}
		ttft = round2(sum / float64(len(gaps)))
	}

	return InteractionMetrics{
		SpeakingRatio: ratio,
		Interruptions: interruptions,
		TTFT:          ttft,
	}
}
