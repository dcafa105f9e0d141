package hermes

const (
	SubjectSessionAll = "matchmaker.session.>"

	StreamName   = "MATCHMAKER_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectSessionStarted(id string) string   { return "matchmaker.session." + id + ".started" }
func SubjectSessionAnswered(id string) string  { return "matchmaker.session." + id + ".answered" }
func SubjectSessionCompleted(id string) string { return "matchmaker.session." + id + ".completed" }
func SubjectSessionReset(id string) string     { return "matchmaker.session." + id + ".reset" }
