// play_sessions.go: standalone script that plays randomized sessions against
// a running Matchmaker API and prints each session's best match.
//
// Usage:
//
//	go run scripts/play_sessions.go -api http://localhost:8700 -n 10
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
)

type sessionResp struct {
	ID    string `json:"session_id"`
	Phase string `json:"phase"`
	Total int    `json:"total"`
}

type answerResp struct {
	Session sessionResp `json:"session"`
}

type matchesResp struct {
	Matches []struct {
		Name       string  `json:"name"`
		Percentage float64 `json:"percentage"`
	} `json:"matches"`
}

var answers = []struct {
	Side       string
	Multiplier float64
}{
	{"a", 1.0}, {"a", 0.5}, {"neutral", 0}, {"b", 0.5}, {"b", 1.0},
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "Matchmaker API base URL")
	clientID := flag.String("client", "play-sessions", "X-Client-ID header value")
	n := flag.Int("n", 5, "number of sessions to play")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	c := &client{base: *apiURL + "/api/v1", clientID: *clientID}

	for i := 0; i < *n; i++ {
		var sess sessionResp
		if err := c.post("/sessions", nil, &sess); err != nil {
			log.Fatalf("create session: %v", err)
		}
		if err := c.post("/sessions/"+sess.ID+"/begin", nil, &sess); err != nil {
			log.Fatalf("begin %s: %v", sess.ID, err)
		}

		for sess.Phase == "in_progress" {
			a := answers[rng.Intn(len(answers))]
			var resp answerResp
			body := map[string]interface{}{"side": a.Side, "multiplier": a.Multiplier}
			if err := c.post("/sessions/"+sess.ID+"/answers", body, &resp); err != nil {
				log.Fatalf("answer %s: %v", sess.ID, err)
			}
			sess = resp.Session
		}

		var m matchesResp
		if err := c.get("/sessions/"+sess.ID+"/matches?limit=1", &m); err != nil {
			log.Fatalf("matches %s: %v", sess.ID, err)
		}
		if len(m.Matches) == 0 {
			fmt.Printf("%s: no matches\n", sess.ID)
			continue
		}
		fmt.Printf("%s: %s (%.0f%%)\n", sess.ID, m.Matches[0].Name, m.Matches[0].Percentage)
	}
}

type client struct {
	base     string
	clientID string
}

func (c *client) post(path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest("POST", c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *client) get(path string, out interface{}) error {
	req, err := http.NewRequest("GET", c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out interface{}) error {
	req.Header.Set("X-Client-ID", c.clientID)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", req.Method, req.URL.Path, resp.StatusCode, e["error"])
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
