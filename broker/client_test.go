package broker

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAddPartition_ParsesPreviousCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/add_partition" {
			t.Errorf("expected /add_partition, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":"7"}`))
	}))
	defer srv.Close()

	client := NewPartitionManagerClient(srv.URL, nil)
	got, err := client.AddPartition()
	if err != nil {
		t.Fatalf("AddPartition: %v", err)
	}
	if got != 7 {
		t.Errorf("expected previous count 7, got %d", got)
	}
}

func TestAddPartition_NonOKStatusIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewPartitionManagerClient(srv.URL, nil)
	_, err := client.AddPartition()
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var failure *TransportFailure
	if _, ok := err.(*TransportFailure); !ok {
		t.Errorf("expected *TransportFailure, got %T", err)
	} else {
		failure = err.(*TransportFailure)
		if failure.Op != "add_partition" {
			t.Errorf("expected op add_partition, got %s", failure.Op)
		}
	}
}

func TestCreateTopic_TreatsOKAndBadRequestDistinctly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("topic") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewPartitionManagerClient(srv.URL, nil)
	if err := client.CreateTopic("session"); err != nil {
		t.Errorf("expected nil error for a named topic, got %v", err)
	}
	if err := client.CreateTopic(""); err == nil {
		t.Errorf("expected an error for a 400 response to an empty topic name")
	}
}

func TestHealth_OKIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewPartitionManagerClient(srv.URL, nil)
	if err := client.Health(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestHealth_FailureIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewPartitionManagerClient(srv.URL, nil)
	err := client.Health()
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if _, ok := err.(*TransportFailure); !ok {
		t.Errorf("expected *TransportFailure, got %T", err)
	}
}
