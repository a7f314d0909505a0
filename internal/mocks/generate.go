package mocks

//go:generate mockery --name EventLedger --srcpkg github.com/seology-ai/eventgate/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Publisher --srcpkg github.com/seology-ai/eventgate/internal/events --output ./events --outpkg eventsmocks --with-expecter
//go:generate mockery --name Processor --srcpkg github.com/seology-ai/eventgate/internal/webhook --output ./webhook --outpkg webhookmocks --with-expecter
