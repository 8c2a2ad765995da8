// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

func newTestSession(t *testing.T, handler http.Handler) *Session {
	t.Helper()
	client, _ := newTestClient(t, handler)
	apiSession, err := client.SessionFromToken("tok-abc")
	if err != nil {
		t.Fatalf("SessionFromToken: %v", err)
	}
	t.Cleanup(func() { apiSession.Close() })
	return apiSession
}

func TestSession_SendsBearerToken(t *testing.T) {
	var gotAuthorization string

	apiSession := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Identity{})
	}))

	if _, err := apiSession.ListUsers(context.Background()); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if gotAuthorization != "Bearer tok-abc" {
		t.Errorf("Authorization = %q, want %q", gotAuthorization, "Bearer tok-abc")
	}
}

func TestAnonymousSession_SendsNoAuthorization(t *testing.T) {
	var gotAuthorization string
	var sawHeader bool

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthorization = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Authentication required"})
	}))

	apiSession := client.AnonymousSession()
	defer apiSession.Close()

	if apiSession.Authenticated() {
		t.Error("AnonymousSession reports Authenticated")
	}
	_, err := apiSession.UserImages(context.Background())
	if !IsAuthRequired(err) {
		t.Errorf("IsAuthRequired(%v) = false, want true", err)
	}
	if sawHeader {
		t.Errorf("Authorization header sent on anonymous session: %q", gotAuthorization)
	}
}

func TestSetDoctorStatus_WireFormat(t *testing.T) {
	var gotBody map[string]any

	apiSession := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/doctor/approve" {
			t.Errorf("path = %q, want /api/users/doctor/approve", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"message": "updated"})
	}))

	if err := apiSession.SetDoctorStatus(context.Background(), 42, ApprovalApproved); err != nil {
		t.Fatalf("SetDoctorStatus: %v", err)
	}
	if gotBody["doctorId"] != float64(42) {
		t.Errorf("doctorId = %v, want 42", gotBody["doctorId"])
	}
	if gotBody["status"] != "approved" {
		t.Errorf("status = %v, want approved", gotBody["status"])
	}
}

func TestSetDoctorStatus_RejectsNonTerminalStatus(t *testing.T) {
	apiSession := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the server for a non-terminal status")
	}))

	if err := apiSession.SetDoctorStatus(context.Background(), 42, ApprovalPending); err == nil {
		t.Fatal("SetDoctorStatus(pending) succeeded, want error")
	}
}

func TestUploadImage_MultipartAndResult(t *testing.T) {
	apiSession := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/images/upload" {
			t.Errorf("path = %q, want /api/images/upload", r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("image part: %v", err)
		}
		defer file.Close()
		if header.Filename != "lesion.jpg" {
			t.Errorf("filename = %q, want lesion.jpg", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "jpeg-bytes" {
			t.Errorf("image content = %q", content)
		}
		json.NewEncoder(w).Encode(AnalysisResult{
			Features: &FeatureSet{Asymmetry: 1, PigmentNetwork: FeatureAtypical, DarkBrown: true},
			Classification: &Classification{
				Success:         true,
				ConfidenceLevel: ConfidenceHigh,
				Entries: []ClassificationEntry{
					{Rank: 1, ClassName: "Melanocytic nevus", ClassCode: "nv", ConfidencePercent: 91.4},
				},
			},
		})
	}))

	result, err := apiSession.UploadImage(context.Background(), "lesion.jpg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if result.Features == nil || result.Features.PigmentNetwork != FeatureAtypical {
		t.Errorf("features = %+v", result.Features)
	}
	if result.Classification == nil || len(result.Classification.Entries) != 1 {
		t.Fatalf("classification = %+v", result.Classification)
	}
	if top := result.Classification.Entries[0]; top.ClassCode != "nv" || top.ConfidencePercent != 91.4 {
		t.Errorf("top entry = %+v", top)
	}
}

func TestUploadImage_FeaturesOnlyResponse(t *testing.T) {
	apiSession := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AnalysisResult{
			Features: &FeatureSet{Asymmetry: 2, Streaks: FeaturePresent},
		})
	}))

	result, err := apiSession.UploadImage(context.Background(), "lesion.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if result.Features == nil {
		t.Fatal("features missing")
	}
	if result.Classification != nil {
		t.Errorf("classification = %+v, want nil", result.Classification)
	}
}

func TestUploadImage_EmptyImageRejectedLocally(t *testing.T) {
	apiSession := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the server with an empty image")
	}))

	if _, err := apiSession.UploadImage(context.Background(), "lesion.jpg", nil); err == nil {
		t.Fatal("UploadImage with empty content succeeded, want error")
	}
}

func TestUserImagesAndImageByID(t *testing.T) {
	apiSession := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/images/user/me":
			json.NewEncoder(w).Encode([]ImageRecord{
				{ID: "img-2", FileName: "b.jpg", UploadedAt: "2026-08-20T10:00:00Z"},
				{ID: "img-1", FileName: "a.jpg", UploadedAt: "2026-08-19T10:00:00Z"},
			})
		case "/api/images/img-2":
			json.NewEncoder(w).Encode(ImageRecord{ID: "img-2", FileName: "b.jpg"})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Image not found"})
		}
	}))

	records, err := apiSession.UserImages(context.Background())
	if err != nil {
		t.Fatalf("UserImages: %v", err)
	}
	if len(records) != 2 || records[0].ID != "img-2" {
		t.Errorf("records = %+v", records)
	}

	record, err := apiSession.ImageByID(context.Background(), "img-2")
	if err != nil {
		t.Fatalf("ImageByID: %v", err)
	}
	if record.FileName != "b.jpg" {
		t.Errorf("record = %+v", record)
	}

	_, err = apiSession.ImageByID(context.Background(), "img-9")
	if !IsStatus(err, http.StatusNotFound) {
		t.Errorf("IsStatus(err, 404) = false for %v", err)
	}
}
