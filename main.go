// Project Structure Overview
/*
demotrack-backend/
├── cmd/
│   └── server/
│       └── main.go
├── internal/
│   ├── config/
│   │   ├── config.go
│   │   └── database.go
│   ├── models/
│   │   ├── common.go
│   │   ├── product.go
│   │   ├── demo_case.go
│   │   ├── loan.go
│   │   ├── team_member.go
│   │   └── activity_log.go
│   ├── apperrors/
│   │   └── errors.go
│   ├── inventory/
│   │   ├── availability.go
│   │   ├── grouping.go
│   │   └── case_status.go
│   ├── services/
│   │   ├── activity_service.go
│   │   ├── auth_service.go
│   │   ├── product_service.go
│   │   ├── item_tracking_service.go
│   │   ├── loan_service.go
│   │   ├── democase_service.go
│   │   ├── team_service.go
│   │   ├── import_service.go
│   │   ├── export_service.go
│   │   └── storage_service.go
│   ├── handlers/
│   │   ├── auth.go
│   │   ├── product.go
│   │   ├── loan.go
│   │   ├── democase.go
│   │   ├── team.go
│   │   └── activity.go
│   ├── middleware/
│   │   ├── auth.go
│   │   ├── cors.go
│   │   ├── logging.go
│   │   ├── metrics.go
│   │   └── rate_limit.go
│   ├── database/
│   │   └── connection.go
│   ├── utils/
│   │   ├── jwt.go
│   │   ├── validator.go
│   │   ├── crypto.go
│   │   ├── pagination.go
│   │   └── response.go
│   └── router/
│       └── router.go
├── go.mod
├── go.sum
└── README.md
*/

package demotrackbackend

// This file shows the project structure and main entry point
// The actual implementation will be in separate files as shown in the structure above
