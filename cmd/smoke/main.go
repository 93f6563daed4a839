package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mindspace/api/internal/config"
	"github.com/mindspace/api/internal/database"
)

// Manual smoke check against a locally running server. Run the server with
// MOCK_AI=true so no upstream credentials are needed, then run this tool.
func main() {
	cfg := config.Load()
	base := fmt.Sprintf("http://localhost:%s", cfg.Port)

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	client := &http.Client{Timeout: 30 * time.Second}

	// Wait for server startup.
	for i := 0; i < 10; i++ {
		resp, err := client.Get(base + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		log.Printf("Waiting for server... %v", err)
		time.Sleep(1 * time.Second)
	}

	userID := uuid.New().String()

	// 1. Chat
	log.Println("Calling chat endpoint...")
	chat := postJSON(client, base+"/api/ai/chat", map[string]any{
		"message": "Hello there",
		"user_id": userID,
	})
	if chat["reply"] == "" {
		log.Fatal("Chat returned empty reply")
	}

	// 2. Art
	log.Println("Calling art endpoint...")
	art := postJSON(client, base+"/api/ai/art", map[string]any{
		"prompt": "a quiet harbour at dawn",
	})
	img, _ := art["art"].(string)
	if !strings.HasPrefix(img, "data:image/") {
		log.Fatalf("Art did not return a data URL: %.60s", img)
	}

	// 3. Audio
	log.Println("Calling audio endpoint...")
	audio := postJSON(client, base+"/api/media/audio", map[string]any{
		"text": "The tide rolls in",
	})
	mp3, _ := audio["audio"].(string)
	if !strings.HasPrefix(mp3, "data:audio/") {
		log.Fatalf("Audio did not return a data URL: %.60s", mp3)
	}

	// 4. Mind map
	log.Println("Calling mindmap endpoint...")
	mm := postJSON(client, base+"/api/media/mindmap", map[string]any{
		"topic": "photosynthesis",
	})
	if mm["success"] != true {
		log.Fatalf("MindMap failed: %v", mm)
	}

	// 5. Task lifecycle, then verify the row landed in Postgres.
	log.Println("Exercising task CRUD...")
	task := postJSON(client, base+"/api/tasks", map[string]any{
		"title":   "smoke test task",
		"user_id": userID,
	})
	taskID, _ := task["id"].(string)
	if taskID == "" {
		log.Fatalf("Task create returned no id: %v", task)
	}

	var count int
	err = db.Pool().QueryRow(ctx, "SELECT COUNT(*) FROM tasks WHERE id = $1", taskID).Scan(&count)
	if err != nil {
		log.Fatalf("Failed to query tasks: %v", err)
	}
	if count == 0 {
		log.Fatal("Created task not found in database")
	}

	req, _ := http.NewRequest(http.MethodDelete, base+"/api/tasks/"+taskID, nil)
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Task delete failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		log.Fatalf("Task delete: expected 200, got %d", resp.StatusCode)
	}

	// 6. Chat memory should now hold the turns from step 1.
	log.Println("Checking chat memory...")
	memResp, err := client.Get(base + "/api/ai/memory/" + userID)
	if err != nil {
		log.Fatalf("Memory fetch failed: %v", err)
	}
	body, _ := io.ReadAll(memResp.Body)
	memResp.Body.Close()
	if memResp.StatusCode != 200 {
		log.Fatalf("Memory fetch: expected 200, got %d. Body: %s", memResp.StatusCode, body)
	}

	log.Println("SUCCESS: chat, art, audio, mindmap, tasks and memory all responded")
}

func postJSON(client *http.Client, url string, payload map[string]any) map[string]any {
	jsonBody, _ := json.Marshal(payload)
	resp, err := client.Post(url, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		log.Fatalf("POST %s: expected 200, got %d. Body: %s", url, resp.StatusCode, body)
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		log.Fatalf("POST %s: invalid JSON response: %v", url, err)
	}
	return out
}
