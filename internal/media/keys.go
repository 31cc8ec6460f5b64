package media

// Wire keys of the flattened attribute map. Downstream consumers depend on
// these strings verbatim.
const (
	KeyMediaSessionID   = "media_session_id"
	KeyPlayheadPosition = "playhead_position"
	KeyID               = "id"

	KeyContentTitle = "content_title"
	KeyContentID    = "content_id"
	KeyDuration     = "content_duration"
	KeyStreamType   = "stream_type"
	KeyContentType  = "content_type"

	KeySeekPosition = "seek_position"

	KeyBufferDuration = "buffer_duration"
	KeyBufferPercent  = "buffer_percent"
	KeyBufferPosition = "buffer_position"

	KeyQoSBitrate       = "qos_bitrate"
	KeyQoSFPS           = "qos_fps"
	KeyQoSStartupTime   = "qos_startup_time"
	KeyQoSDroppedFrames = "qos_dropped_frames"

	KeyAdTitle      = "ad_content_title"
	KeyAdDuration   = "ad_content_duration"
	KeyAdID         = "ad_content_id"
	KeyAdAdvertiser = "ad_content_advertiser"
	KeyAdCampaign   = "ad_content_campaign"
	KeyAdCreative   = "ad_content_creative"
	KeyAdPlacement  = "ad_content_placement"
	KeyAdPosition   = "ad_content_position"
	KeyAdSiteID     = "ad_content_site_id"

	KeyAdBreakTitle        = "ad_break_title"
	KeyAdBreakDuration     = "ad_break_duration"
	KeyAdBreakPlaybackTime = "ad_break_playback_time"
	KeyAdBreakID           = "ad_break_id"

	KeySegmentTitle    = "segment_title"
	KeySegmentIndex    = "segment_index"
	KeySegmentDuration = "segment_duration"

	// Session summary.
	KeySessionStartTime    = "media_session_start_time"
	KeySessionEndTime      = "media_session_end_time"
	KeyTimeSpent           = "media_time_spent"
	KeyContentTimeSpent    = "media_content_time_spent"
	KeyContentComplete     = "media_content_complete"
	KeySessionSegmentTotal = "media_session_segment_total"
	KeyTotalAdTimeSpent    = "media_total_ad_time_spent"
	KeyAdTimeSpentRate     = "media_ad_time_spent_rate"
	KeySessionAdTotal      = "media_session_ad_total"
	KeySessionAdObjects    = "media_session_ad_objects"

	// Ad summary.
	KeyAdStartTime = "ad_content_start_time"
	KeyAdEndTime   = "ad_content_end_time"
	KeyAdSkipped   = "ad_skipped"
	KeyAdCompleted = "ad_completed"

	// Segment summary.
	KeySegmentStartTime = "segment_start_time"
	KeySegmentEndTime   = "segment_end_time"
	KeySegmentTimeSpent = "media_segment_time_spent"
	KeySegmentSkipped   = "segment_skipped"
	KeySegmentCompleted = "segment_completed"
)
