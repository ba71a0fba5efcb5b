/*
Package fundme contains FundMe contract, a crowdfunding treasury deployed to
a NEO N3 chain.

FundMe accepts GAS deposits valued against USD through an external price feed
contract. A deposit is accepted only if its USD value is at least MinimumUSD
(5 USD, 18-decimal fixed point); smaller deposits fail and no GAS is
retained. For every accepted deposit, the contract records the cumulative
amount per account and appends the account to an ordered funder list, so the
contract GAS balance is always the sum of recorded amounts.

The owner account is fixed at deploy together with the price feed script
hash. Only the owner can invoke Withdraw, which transfers the whole contract
balance to the owner and resets the ledger in the same transaction. GAS can
enter the contract only through the Fund method; direct NEP-17 transfers are
rejected.

# Contract notifications

Fund notification. Produced on every accepted deposit.

	Fund:
	  - name: funder
	    type: Hash160
	  - name: amount
	    type: Integer

Withdraw notification. Produced on a successful withdrawal.

	Withdraw:
	  - name: owner
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package fundme

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'contractOwner' -> interop.Hash160
    contract owner, fixed at deploy
  - 'p' -> interop.Hash160
    price feed contract reference
  - 'a' + funder script hash -> int
    cumulative GAS deposited by the account
  - 'f' -> std-serialized [][]byte
    ordered list of funder script hashes, one entry per deposit
*/
