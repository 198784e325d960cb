// Package PaymentPool is a Go binding for the PaymentPool contract, laid out
// the way abigen lays out bindings so it can be swapped for a generated one.
package PaymentPool

import (
	"errors"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// PaymentPoolMetaData contains all meta data concerning the PaymentPool contract.
var PaymentPoolMetaData = &bind.MetaData{
	ABI: "[{\"type\":\"function\",\"name\":\"numPaymentCycles\",\"inputs\":[],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"submitPayeeMerkleRoot\",\"inputs\":[{\"name\":\"payeeRoot\",\"type\":\"bytes32\",\"internalType\":\"bytes32\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"balanceForProof\",\"inputs\":[{\"name\":\"cumulativeAmount\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"paymentCycle\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"proof\",\"type\":\"bytes32[]\",\"internalType\":\"bytes32[]\"}],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"balanceForProofWithAddress\",\"inputs\":[{\"name\":\"_address\",\"type\":\"address\",\"internalType\":\"address\"},{\"name\":\"cumulativeAmount\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"paymentCycle\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"proof\",\"type\":\"bytes32[]\",\"internalType\":\"bytes32[]\"}],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"withdraw\",\"inputs\":[{\"name\":\"amount\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"cumulativeAmount\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"paymentCycle\",\"type\":\"uint256\",\"internalType\":\"uint256\"},{\"name\":\"proof\",\"type\":\"bytes32[]\",\"internalType\":\"bytes32[]\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"nonpayable\"},{\"type\":\"function\",\"name\":\"withdrawals\",\"inputs\":[{\"name\":\"\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"\",\"type\":\"uint256\",\"internalType\":\"uint256\"}],\"stateMutability\":\"view\"},{\"type\":\"event\",\"name\":\"PaymentCycleEnded\",\"inputs\":[{\"name\":\"paymentCycle\",\"type\":\"uint256\",\"indexed\":false,\"internalType\":\"uint256\"},{\"name\":\"startBlock\",\"type\":\"uint256\",\"indexed\":false,\"internalType\":\"uint256\"},{\"name\":\"endBlock\",\"type\":\"uint256\",\"indexed\":false,\"internalType\":\"uint256\"}],\"anonymous\":false},{\"type\":\"event\",\"name\":\"PayeeWithdraw\",\"inputs\":[{\"name\":\"payee\",\"type\":\"address\",\"indexed\":false,\"internalType\":\"address\"},{\"name\":\"amount\",\"type\":\"uint256\",\"indexed\":false,\"internalType\":\"uint256\"}],\"anonymous\":false}]",
}

// PaymentPool is a Go binding around the PaymentPool contract.
type PaymentPool struct {
	PaymentPoolCaller     // Read-only binding to the contract
	PaymentPoolTransactor // Write-only binding to the contract
	PaymentPoolFilterer   // Log filterer for contract events
}

// PaymentPoolCaller is a read-only Go binding around the PaymentPool contract.
type PaymentPoolCaller struct {
	contract *bind.BoundContract
}

// PaymentPoolTransactor is a write-only Go binding around the PaymentPool contract.
type PaymentPoolTransactor struct {
	contract *bind.BoundContract
}

// PaymentPoolFilterer is a log filtering Go binding around the PaymentPool contract events.
type PaymentPoolFilterer struct {
	contract *bind.BoundContract
}

// NewPaymentPool creates a new instance of PaymentPool, bound to a specific deployed contract.
func NewPaymentPool(address common.Address, backend bind.ContractBackend) (*PaymentPool, error) {
	contract, err := bindPaymentPool(address, backend, backend, backend)
	if err != nil {
		return nil, err
	}
	return &PaymentPool{PaymentPoolCaller: PaymentPoolCaller{contract: contract}, PaymentPoolTransactor: PaymentPoolTransactor{contract: contract}, PaymentPoolFilterer: PaymentPoolFilterer{contract: contract}}, nil
}

// NewPaymentPoolCaller creates a new read-only instance of PaymentPool, bound to a specific deployed contract.
func NewPaymentPoolCaller(address common.Address, caller bind.ContractCaller) (*PaymentPoolCaller, error) {
	contract, err := bindPaymentPool(address, caller, nil, nil)
	if err != nil {
		return nil, err
	}
	return &PaymentPoolCaller{contract: contract}, nil
}

// bindPaymentPool binds a generic wrapper to an already deployed contract.
func bindPaymentPool(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor, filterer bind.ContractFilterer) (*bind.BoundContract, error) {
	parsed, err := PaymentPoolMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, errors.New("GetABI returned nil")
	}
	return bind.NewBoundContract(address, *parsed, caller, transactor, filterer), nil
}

// NumPaymentCycles is a free data retrieval call binding the contract method numPaymentCycles.
//
// Solidity: function numPaymentCycles() view returns(uint256)
func (_PaymentPool *PaymentPoolCaller) NumPaymentCycles(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := _PaymentPool.contract.Call(opts, &out, "numPaymentCycles")

	if err != nil {
		return *new(*big.Int), err
	}

	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)

	return out0, err
}

// BalanceForProof is a free data retrieval call binding the contract method balanceForProof.
// The balance is computed for opts.From.
//
// Solidity: function balanceForProof(uint256 cumulativeAmount, uint256 paymentCycle, bytes32[] proof) view returns(uint256)
func (_PaymentPool *PaymentPoolCaller) BalanceForProof(opts *bind.CallOpts, cumulativeAmount *big.Int, paymentCycle *big.Int, proof [][32]byte) (*big.Int, error) {
	var out []interface{}
	err := _PaymentPool.contract.Call(opts, &out, "balanceForProof", cumulativeAmount, paymentCycle, proof)

	if err != nil {
		return *new(*big.Int), err
	}

	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)

	return out0, err
}

// BalanceForProofWithAddress is a free data retrieval call binding the contract method balanceForProofWithAddress.
//
// Solidity: function balanceForProofWithAddress(address _address, uint256 cumulativeAmount, uint256 paymentCycle, bytes32[] proof) view returns(uint256)
func (_PaymentPool *PaymentPoolCaller) BalanceForProofWithAddress(opts *bind.CallOpts, _address common.Address, cumulativeAmount *big.Int, paymentCycle *big.Int, proof [][32]byte) (*big.Int, error) {
	var out []interface{}
	err := _PaymentPool.contract.Call(opts, &out, "balanceForProofWithAddress", _address, cumulativeAmount, paymentCycle, proof)

	if err != nil {
		return *new(*big.Int), err
	}

	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)

	return out0, err
}

// Withdrawals is a free data retrieval call binding the contract method withdrawals.
//
// Solidity: function withdrawals(address ) view returns(uint256)
func (_PaymentPool *PaymentPoolCaller) Withdrawals(opts *bind.CallOpts, arg0 common.Address) (*big.Int, error) {
	var out []interface{}
	err := _PaymentPool.contract.Call(opts, &out, "withdrawals", arg0)

	if err != nil {
		return *new(*big.Int), err
	}

	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)

	return out0, err
}

// SubmitPayeeMerkleRoot is a paid mutator transaction binding the contract method submitPayeeMerkleRoot.
//
// Solidity: function submitPayeeMerkleRoot(bytes32 payeeRoot) returns(bool)
func (_PaymentPool *PaymentPoolTransactor) SubmitPayeeMerkleRoot(opts *bind.TransactOpts, payeeRoot [32]byte) (*types.Transaction, error) {
	return _PaymentPool.contract.Transact(opts, "submitPayeeMerkleRoot", payeeRoot)
}

// Withdraw is a paid mutator transaction binding the contract method withdraw.
//
// Solidity: function withdraw(uint256 amount, uint256 cumulativeAmount, uint256 paymentCycle, bytes32[] proof) returns(bool)
func (_PaymentPool *PaymentPoolTransactor) Withdraw(opts *bind.TransactOpts, amount *big.Int, cumulativeAmount *big.Int, paymentCycle *big.Int, proof [][32]byte) (*types.Transaction, error) {
	return _PaymentPool.contract.Transact(opts, "withdraw", amount, cumulativeAmount, paymentCycle, proof)
}

// PaymentPoolPaymentCycleEndedIterator is returned from FilterPaymentCycleEnded and is used to iterate over the raw logs and unpacked data for PaymentCycleEnded events raised by the PaymentPool contract.
type PaymentPoolPaymentCycleEndedIterator struct {
	Event *PaymentPoolPaymentCycleEnded // Event containing the contract specifics and raw log

	contract *bind.BoundContract // Generic contract to use for unpacking event data
	event    string              // Event name to use for unpacking event data

	logs chan types.Log        // Log channel receiving the found contract events
	sub  ethereum.Subscription // Subscription for errors, completion and termination
	done bool                  // Whether the subscription completed delivering logs
	fail error                 // Occurred error to stop iteration
}

// Next advances the iterator to the subsequent event, returning whether there
// are any more events found. In case of a retrieval or parsing error, false is
// returned and Error() can be queried for the exact failure.
func (it *PaymentPoolPaymentCycleEndedIterator) Next() bool {
	if it.fail != nil {
		return false
	}
	if it.done {
		select {
		case log := <-it.logs:
			it.Event = new(PaymentPoolPaymentCycleEnded)
			if err := it.contract.UnpackLog(it.Event, it.event, log); err != nil {
				it.fail = err
				return false
			}
			it.Event.Raw = log
			return true

		default:
			return false
		}
	}
	select {
	case log := <-it.logs:
		it.Event = new(PaymentPoolPaymentCycleEnded)
		if err := it.contract.UnpackLog(it.Event, it.event, log); err != nil {
			it.fail = err
			return false
		}
		it.Event.Raw = log
		return true

	case err := <-it.sub.Err():
		it.done = true
		it.fail = err
		return it.Next()
	}
}

// Error returns any retrieval or parsing error occurred during filtering.
func (it *PaymentPoolPaymentCycleEndedIterator) Error() error {
	return it.fail
}

// Close terminates the iteration process, releasing any pending underlying
// resources.
func (it *PaymentPoolPaymentCycleEndedIterator) Close() error {
	it.sub.Unsubscribe()
	return nil
}

// PaymentPoolPaymentCycleEnded represents a PaymentCycleEnded event raised by the PaymentPool contract.
type PaymentPoolPaymentCycleEnded struct {
	PaymentCycle *big.Int
	StartBlock   *big.Int
	EndBlock     *big.Int
	Raw          types.Log // Blockchain specific contextual infos
}

// FilterPaymentCycleEnded is a free log retrieval operation binding the contract event PaymentCycleEnded.
//
// Solidity: event PaymentCycleEnded(uint256 paymentCycle, uint256 startBlock, uint256 endBlock)
func (_PaymentPool *PaymentPoolFilterer) FilterPaymentCycleEnded(opts *bind.FilterOpts) (*PaymentPoolPaymentCycleEndedIterator, error) {
	logs, sub, err := _PaymentPool.contract.FilterLogs(opts, "PaymentCycleEnded")
	if err != nil {
		return nil, err
	}
	return &PaymentPoolPaymentCycleEndedIterator{contract: _PaymentPool.contract, event: "PaymentCycleEnded", logs: logs, sub: sub}, nil
}

// WatchPaymentCycleEnded is a free log subscription operation binding the contract event PaymentCycleEnded.
//
// Solidity: event PaymentCycleEnded(uint256 paymentCycle, uint256 startBlock, uint256 endBlock)
func (_PaymentPool *PaymentPoolFilterer) WatchPaymentCycleEnded(opts *bind.WatchOpts, sink chan<- *PaymentPoolPaymentCycleEnded) (event.Subscription, error) {
	logs, sub, err := _PaymentPool.contract.WatchLogs(opts, "PaymentCycleEnded")
	if err != nil {
		return nil, err
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case log := <-logs:
				event := new(PaymentPoolPaymentCycleEnded)
				if err := _PaymentPool.contract.UnpackLog(event, "PaymentCycleEnded", log); err != nil {
					return err
				}
				event.Raw = log

				select {
				case sink <- event:
				case err := <-sub.Err():
					return err
				case <-quit:
					return nil
				}
			case err := <-sub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}

// ParsePaymentCycleEnded is a log parse operation binding the contract event PaymentCycleEnded.
//
// Solidity: event PaymentCycleEnded(uint256 paymentCycle, uint256 startBlock, uint256 endBlock)
func (_PaymentPool *PaymentPoolFilterer) ParsePaymentCycleEnded(log types.Log) (*PaymentPoolPaymentCycleEnded, error) {
	event := new(PaymentPoolPaymentCycleEnded)
	if err := _PaymentPool.contract.UnpackLog(event, "PaymentCycleEnded", log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}

// PaymentPoolPayeeWithdraw represents a PayeeWithdraw event raised by the PaymentPool contract.
type PaymentPoolPayeeWithdraw struct {
	Payee  common.Address
	Amount *big.Int
	Raw    types.Log // Blockchain specific contextual infos
}

// ParsePayeeWithdraw is a log parse operation binding the contract event PayeeWithdraw.
//
// Solidity: event PayeeWithdraw(address payee, uint256 amount)
func (_PaymentPool *PaymentPoolFilterer) ParsePayeeWithdraw(log types.Log) (*PaymentPoolPayeeWithdraw, error) {
	event := new(PaymentPoolPayeeWithdraw)
	if err := _PaymentPool.contract.UnpackLog(event, "PayeeWithdraw", log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}
