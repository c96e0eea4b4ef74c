package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// ----------------------------------------------------------------------------
// Config ---------------------------------------------------------------------
var (
	baseURL = flag.String("url", env("API_BASE_URL", "http://localhost:8080"), "Server base URL")
	name    = flag.String("name", env("FULL_NAME", "Demo User"), "User full name")
	email   = flag.String("email", env("EMAIL", "demo@example.com"), "User e-mail")
	pass    = flag.String("pass", env("PASSWORD", "Password123"), "User password")
	nNotes  = flag.Int("notes", envInt("NOTES", 200), "How many notes to create")
	nTasks  = flag.Int("tasks", envInt("TASKS", 50), "How many tasks to create")
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		i, err := fmt.Sscan(v, &i)
		if err != nil {
			return def
		}
		if i > 0 {
			return i
		}
	}
	return def
}

// ----------------------------------------------------------------------------
// HTTP helpers ---------------------------------------------------------------
func postJSON(path string, body any, hdr map[string]string) (*http.Response, error) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, *baseURL+path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	return http.DefaultClient.Do(req)
}

func must(body io.ReadCloser) []byte {
	defer body.Close()
	data, _ := io.ReadAll(body)
	return data
}

// ----------------------------------------------------------------------------
// Main -----------------------------------------------------------------------
func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	fmt.Printf("Seeding account %s (notes=%d tasks=%d) on %s\n", *email, *nNotes, *nTasks, *baseURL)

	token, err := ensureUser()
	if err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	if err := createNotes(token, *nNotes); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	if err := createTasks(token, *nTasks); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	fmt.Println("✔ done")
}

// ----------------------------------------------------------------------------
// Step 1 – make sure the user exists -----------------------------------------
func ensureUser() (string, error) {
	register := map[string]string{"fullName": *name, "email": *email, "password": *pass}

	// Try registration first; a 409 means the account already exists.
	if resp, err := postJSON("/api/auth/register", register, nil); err == nil && resp.StatusCode < 300 {
		must(resp.Body)
		fmt.Println("• registered new user")
	}

	login := map[string]string{"email": *email, "password": *pass}
	resp, err := postJSON("/api/auth/login", login, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed (%d): %s", resp.StatusCode, must(resp.Body))
	}
	var r struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(must(resp.Body), &r)
	fmt.Println("• logged in")
	return r.Token, nil
}

// ----------------------------------------------------------------------------
// Step 2 – create notes -------------------------------------------------------
func createNotes(token string, total int) error {
	h := map[string]string{"Authorization": "Bearer " + token}

	for i := 1; i <= total; i++ {
		note := map[string]any{
			"title":   gofakeit.Sentence(3),
			"content": gofakeit.Paragraph(1, 3, 40, " "),
			"tags":    []string{gofakeit.Word(), gofakeit.Word()},
		}

		resp, err := postJSON("/api/notes", note, h)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("create note %d failed (%d): %s", i, resp.StatusCode, must(resp.Body))
		}

		if i%50 == 0 || i == total {
			fmt.Printf("  … notes %d/%d\n", i, total)
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Step 3 – create tasks -------------------------------------------------------
func createTasks(token string, total int) error {
	h := map[string]string{"Authorization": "Bearer " + token}

	for i := 1; i <= total; i++ {
		task := map[string]any{
			"title":       gofakeit.Sentence(4),
			"description": gofakeit.Paragraph(1, 2, 30, " "),
		}
		if gofakeit.Bool() {
			task["due_date"] = gofakeit.FutureDate().UTC().Format(time.RFC3339)
		}

		resp, err := postJSON("/api/tasks", task, h)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("create task %d failed (%d): %s", i, resp.StatusCode, must(resp.Body))
		}

		if i%25 == 0 || i == total {
			fmt.Printf("  … tasks %d/%d\n", i, total)
		}
	}
	return nil
}
