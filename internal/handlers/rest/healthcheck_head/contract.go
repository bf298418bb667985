//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=healthcheck_head_test
package healthcheck_head

import "context"

// Pinger - зависимость, без которой сервис не готов принимать трафик.
type Pinger interface {
	Ping(ctx context.Context) error
}
