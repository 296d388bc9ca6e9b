package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout, webhook replies can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Chat API Smoke Test\n")

	userToken := os.Getenv("TEST_USER_TOKEN")
	if userToken == "" {
		color.Red("TEST_USER_TOKEN is not set (login first and export the access token)")
		os.Exit(1)
	}

	// 1. Send a message without a conversation id (creates one)
	color.Yellow("\n[USER] 1. Send First Message (new conversation)")
	sendReq := map[string]interface{}{
		"message": "Quero entender melhor renda fixa, por onde começo?",
	}
	resp, body, err := sendRequest("POST", "/chat/send", userToken, sendReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var sendResp map[string]interface{}
	json.Unmarshal(body, &sendResp)
	prettyPrint(sendResp)

	// Extract the conversation id for the follow-up calls
	var conversationID string
	if data, ok := sendResp["data"].(map[string]interface{}); ok {
		if id, ok := data["conversation_id"].(string); ok {
			conversationID = id
		}
	}
	if conversationID == "" {
		color.Red("No conversation_id in response, aborting")
		os.Exit(1)
	}

	// 2. Follow-up message in the same conversation
	color.Yellow("\n[USER] 2. Send Follow-up Message")
	followReq := map[string]interface{}{
		"conversation_id": conversationID,
		"message":         "E qual a diferença entre CDB e Tesouro Direto?",
	}
	resp, body, err = sendRequest("POST", "/chat/send", userToken, followReq)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var followResp map[string]interface{}
	json.Unmarshal(body, &followResp)
	prettyPrint(followResp)

	// 3. List conversations
	color.Yellow("\n[USER] 3. List Conversations")
	resp, body, err = sendRequest("GET", "/chat/conversations", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var listResp map[string]interface{}
	json.Unmarshal(body, &listResp)
	prettyPrint(listResp)

	// 4. Fetch history
	color.Yellow("\n[USER] 4. Get Conversation History")
	resp, body, err = sendRequest("GET", "/chat/conversations/"+conversationID+"/messages", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var historyResp map[string]interface{}
	json.Unmarshal(body, &historyResp)
	prettyPrint(historyResp)

	// 5. Notifications should contain the message events
	color.Yellow("\n[USER] 5. Get Notifications")
	resp, body, err = sendRequest("GET", "/notifications/", userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var notifResp map[string]interface{}
	json.Unmarshal(body, &notifResp)
	prettyPrint(notifResp)

	// 6. Delete the conversation
	color.Yellow("\n[USER] 6. Delete Conversation")
	resp, body, err = sendRequest("DELETE", "/chat/conversations/"+conversationID, userToken, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var deleteResp map[string]interface{}
	json.Unmarshal(body, &deleteResp)
	prettyPrint(deleteResp)

	color.Cyan("\n✅ Smoke test finished")
}
