package media

import "github.com/samber/mo"

// logSessionSummary emits the session summary once per latch.
func (s *Session) logSessionSummary() error {
	if s.summarySent {
		return nil
	}
	end := s.endTimestamp.OrElse(s.now())
	s.endTimestamp = mo.Some(end)

	attrs := Attributes{
		KeyMediaSessionID:      s.sessionID,
		KeySessionStartTime:    s.startTimestamp,
		KeySessionEndTime:      end,
		KeyContentID:           s.content.ContentID,
		KeyContentTitle:        s.content.Title,
		KeyTimeSpent:           end - s.startTimestamp,
		KeyContentTimeSpent:    s.ContentTimeSpent(),
		KeyContentComplete:     s.contentComplete,
		KeySessionSegmentTotal: s.segmentTotal,
		KeyTotalAdTimeSpent:    s.totalAdTimeSpent,
		KeyAdTimeSpentRate:     s.AdTimeSpentRate(),
		KeySessionAdTotal:      s.adTotal,
		KeySessionAdObjects:    s.AdIDs(),
	}
	if err := s.logSummary(EventSessionSummary, attrs); err != nil {
		return err
	}
	s.summarySent = true
	return nil
}

// logSegmentSummary emits the segment summary when the open segment was
// genuinely started, then forgets the segment.
func (s *Session) logSegmentSummary() error {
	if seg := s.segment; seg != nil {
		if start, ok := seg.StartTimestamp.Get(); ok {
			end := seg.EndTimestamp.OrElse(s.now())
			seg.EndTimestamp = mo.Some(end)

			attrs := Attributes{
				KeyMediaSessionID:   s.sessionID,
				KeyContentID:        s.content.ContentID,
				KeySegmentIndex:     seg.Index,
				KeySegmentTitle:     seg.Title,
				KeySegmentStartTime: start,
				KeySegmentEndTime:   end,
				KeySegmentTimeSpent: end - start,
			}
			putPresent(attrs, KeySegmentSkipped, seg.Skipped)
			putPresent(attrs, KeySegmentCompleted, seg.Completed)
			if err := s.logSummary(EventSegmentSummary, attrs); err != nil {
				return err
			}
		}
	}
	s.segment = nil
	return nil
}

// logAdSummary emits the ad summary for the current ad, then forgets it. An
// ad that was started but never stamped as ended is closed now.
func (s *Session) logAdSummary() error {
	if ad := s.adContent; ad != nil {
		if start, ok := ad.StartTimestamp.Get(); ok && ad.EndTimestamp.IsAbsent() {
			end := s.now()
			ad.EndTimestamp = mo.Some(end)
			s.totalAdTimeSpent += end - start
		}

		attrs := Attributes{
			KeyMediaSessionID: s.sessionID,
			KeyAdID:           ad.ID,
			KeyAdTitle:        ad.Title,
		}
		if s.adBreak != nil {
			attrs[KeyAdBreakID] = s.adBreak.ID
		}
		putPresent(attrs, KeyAdStartTime, ad.StartTimestamp)
		putPresent(attrs, KeyAdEndTime, ad.EndTimestamp)
		putPresent(attrs, KeyAdSkipped, ad.Skipped)
		putPresent(attrs, KeyAdCompleted, ad.Completed)
		if err := s.logSummary(EventAdSummary, attrs); err != nil {
			return err
		}
	}
	s.adContent = nil
	return nil
}

func (s *Session) logSummary(typ EventType, attrs Attributes) error {
	ev := s.createMediaEvent(typ, Options{
		CurrentPlayheadPosition: s.playhead,
		CustomAttributes:        attrs,
	}, noPayload{})
	return s.logEvent(ev)
}
