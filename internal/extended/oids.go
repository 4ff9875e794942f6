package extended

// Well-known extended operation and unsolicited-notification OIDs.
const (
	OIDStartTLS              = "1.3.6.1.4.1.1466.20037"
	OIDWhoAmI                = "1.3.6.1.4.1.4203.1.11.3"
	OIDPasswordModify        = "1.3.6.1.4.1.4203.1.11.1"
	OIDNoticeOfDisconnection = "1.3.6.1.4.1.1466.20036"
)
