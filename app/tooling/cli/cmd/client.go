package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// client is used for all calls to the node.
var client = http.Client{
	Timeout: 10 * time.Second,
}

// errorResponse matches the error document the node returns.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// get calls the node and decodes the response into dataRecv.
func get(path string, dataRecv any) error {
	return send(http.MethodGet, path, nil, dataRecv)
}

// post sends dataSend to the node and decodes the response into dataRecv.
func post(path string, dataSend any, dataRecv any) error {
	return send(http.MethodPost, path, dataSend, dataRecv)
}

func send(method string, path string, dataSend any, dataRecv any) error {
	var body bytes.Buffer
	if dataSend != nil {
		if err := json.NewEncoder(&body).Encode(dataSend); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, url+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("status %d: %s: %v", resp.StatusCode, er.Error, er.Fields)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, er.Error)
	}

	if dataRecv != nil {
		return json.NewDecoder(resp.Body).Decode(dataRecv)
	}

	return nil
}
