package hermes

import (
	"strings"
	"testing"
)

func TestSessionSubjectsUnderStream(t *testing.T) {
	prefix := strings.TrimSuffix(SubjectSessionAll, ">")
	for _, s := range []string{
		SubjectSessionStarted("abc"),
		SubjectSessionAnswered("abc"),
		SubjectSessionCompleted("abc"),
		SubjectSessionReset("abc"),
	} {
		if !strings.HasPrefix(s, prefix) {
			t.Errorf("subject %q not covered by %q", s, SubjectSessionAll)
		}
		if !strings.Contains(s, ".abc.") {
			t.Errorf("subject %q missing session id", s)
		}
	}
}
