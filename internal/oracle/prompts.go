package oracle

const judgePrompt = `You are a strict classifier oracle. You will be given a yes/no question about a user request.

Question: %s

Request: %s

Answer with exactly one word:
- "YES" if the question is clearly true of the request
- "NO" if it is clearly false
- "UNSURE" if you cannot tell

No explanation, no punctuation.`
