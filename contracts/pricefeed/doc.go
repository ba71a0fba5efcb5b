/*
Package pricefeed contains PriceFeed contract, an aggregator-style price
oracle deployed to a NEO N3 chain.

PriceFeed stores the latest exchange rate between the native currency and a
reference currency as an integer with a fixed number of fractional digits,
both set at deploy. The owner account publishes new answers with
UpdateAnswer; every consumer reads them with safe methods only. FundMe
contract is the primary consumer, deterministic test chains deploy this
contract with a fixed answer instead of a live oracle network.

# Contract notifications

AnswerUpdated notification. Produced on every published answer.

	AnswerUpdated:
	  - name: answer
	    type: Integer
	  - name: round
	    type: Integer
	  - name: updatedAt
	    type: Integer
*/
package pricefeed

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'contractOwner' -> interop.Hash160
    contract owner, fixed at deploy
  - 'd' -> int
    number of fractional digits in answers
  - 's' -> string
    pair description
  - 'a' -> int
    latest answer
  - 'r' -> int
    latest round number
  - 'u' -> int
    block timestamp of the latest answer, milliseconds
*/
