// README: Firestore backend: client construction via the Firebase Admin SDK.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names match the original Firestore deployment so existing data
// keeps working.
const (
	colOrders   = "orders"
	colStudents = "students"
	colMenu     = "menu"
	colSettings = "settings"

	settingsDocID = "main"
)

// NewClient builds a Firestore client. If credentialsFile is non-empty it is
// used as the service-account JSON path; otherwise application-default
// credentials apply.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Firestore: %w", err)
	}
	return client, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
