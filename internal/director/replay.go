package director

// Replay re-feeds the raw model text recorded in log through the session,
// settling the camera after each turn. Fallback turns are replayed from
// their recorded raw text like any other.
func (s *Session) Replay(log *FlightLog) []Turn {
	turns := make([]Turn, 0, len(log.Turns))
	for _, lt := range log.Turns {
		t := s.HandleTurn(lt.Request, lt.Raw)
		s.Settle()
		turns = append(turns, s.turns[t.Index])
	}
	return turns
}
