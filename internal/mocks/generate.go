// Package mocks provides generated test doubles for the gateway ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the port interfaces. To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().CurrentIdentity(gomock.Any()).Return(ident, nil)
package mocks

// Generate mocks for the port interfaces from internal/ports:
// AuthAPI (Login, CurrentIdentity, Logout), CredentialCache (Save, Load,
// Clear), FlagStore (Set, Take), and Navigator (ToSignIn, To).
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/classpoint/schoolgate/internal/ports AuthAPI,CredentialCache,FlagStore,Navigator
