package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// The pages are deliberately simple string consts: they only consume the
// JSON API and the websocket, and all user-supplied strings are inserted
// via textContent, never innerHTML.

const homeHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Bingobox</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; max-width: 40rem; }
  h1 { margin-bottom: 0.5rem; }
  label { display: block; margin-top: 1rem; font-weight: 600; }
  input, textarea { width: 100%; box-sizing: border-box; padding: 0.5rem; margin-top: 0.25rem; }
  textarea { height: 20rem; }
  button { margin-top: 1rem; padding: 0.5rem 1.5rem; }
  #result { margin-top: 1rem; }
  #error { color: #b00; margin-top: 1rem; }
</style>
</head>
<body>
<h1>Bingobox</h1>
<p>Paste 25 prompts, one per line, to start a bingo room.</p>

<label for="title">Title</label>
<input id="title" maxlength="100" placeholder="Friday standup bingo">

<label for="items">Prompts (25 lines)</label>
<textarea id="items" placeholder="Someone says &quot;can you see my screen&quot;"></textarea>

<button id="create">Create room</button>
<div id="error"></div>
<div id="result"></div>

<script>
(function() {
  const errorEl = document.getElementById('error');
  const resultEl = document.getElementById('result');

  document.getElementById('create').addEventListener('click', function() {
    errorEl.textContent = '';
    resultEl.textContent = '';

    fetch('api/rooms', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({
        title: document.getElementById('title').value,
        items: document.getElementById('items').value
      })
    }).then(function(resp) {
      return resp.json().then(function(body) { return { ok: resp.ok, body: body }; });
    }).then(function(r) {
      if (!r.ok) {
        errorEl.textContent = r.body.message || 'room creation failed';
        return;
      }

      const join = document.createElement('p');
      const joinLink = document.createElement('a');
      joinLink.href = r.body.joinUrl;
      joinLink.textContent = r.body.joinUrl;
      join.appendChild(document.createTextNode('Players join at: '));
      join.appendChild(joinLink);

      const board = document.createElement('p');
      const boardLink = document.createElement('a');
      boardLink.href = r.body.boardUrl;
      boardLink.textContent = r.body.boardUrl;
      board.appendChild(document.createTextNode('Host view: '));
      board.appendChild(boardLink);

      const code = document.createElement('p');
      code.textContent = 'Room code: ' + r.body.roomId;

      resultEl.appendChild(code);
      resultEl.appendChild(join);
      resultEl.appendChild(board);
    }).catch(function() {
      errorEl.textContent = 'room creation failed';
    });
  });
})();
</script>
</body>
</html>
`

const playHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Bingobox</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 1rem; }
  h1 { margin-bottom: 0.5rem; font-size: 1.3rem; }
  #status { margin-bottom: 1rem; font-size: 0.9rem; }
  #grid { display: grid; grid-template-columns: repeat(5, 1fr); gap: 4px; max-width: 40rem; }
  #grid div { border: 1px solid #888; padding: 0.5rem 0.25rem; min-height: 4rem; font-size: 0.8rem;
              display: flex; align-items: center; justify-content: center; text-align: center;
              cursor: pointer; user-select: none; }
  #grid div.marked { background: #9dd89d; }
  #lines { margin: 0.75rem 0; font-weight: 600; }
  #ranks { padding: 0; list-style: none; max-width: 40rem; }
  #ranks li { padding: 0.25rem 0; border-bottom: 1px solid #ddd; }
</style>
</head>
<body>
<h1 id="title">Bingo</h1>
<div id="status">Connecting…</div>
<div id="grid"></div>
<div id="lines"></div>
<h2>Leaderboard</h2>
<ul id="ranks"></ul>

<script>
(function() {
  const statusEl = document.getElementById('status');
  const titleEl = document.getElementById('title');
  const gridEl = document.getElementById('grid');
  const linesEl = document.getElementById('lines');
  const ranksEl = document.getElementById('ranks');

  const parts = location.pathname.replace(/\/$/, '').split('/');
  const roomId = parts[parts.length - 1];
  const wsPath = parts.slice(0, parts.length - 2).join('/') + '/ws';

  const proto = (location.protocol === 'https:') ? 'wss://' : 'ws://';
  const ws = new WebSocket(proto + location.host + wsPath);

  ws.onopen = function() {
    statusEl.textContent = 'Connected.';
    const name = prompt('Enter your name:') || '';
    ws.send(JSON.stringify({ type: 'join', roomId: roomId, name: name }));
  };

  ws.onmessage = function(event) {
    try {
      const msg = JSON.parse(event.data);

      if (msg.type === 'error') {
        statusEl.textContent = msg.message;
        return;
      }

      if (msg.type === 'board') {
        titleEl.textContent = msg.title;
        statusEl.textContent = 'Playing as ' + msg.name + ' in room ' + roomId;
        linesEl.textContent = 'Completed lines: ' + msg.lineCount;

        gridEl.innerHTML = '';
        for (let r = 0; r < 5; r++) {
          for (let c = 0; c < 5; c++) {
            const cell = document.createElement('div');
            cell.textContent = msg.board[r][c];
            if (msg.marks[r][c]) {
              cell.classList.add('marked');
            }
            cell.addEventListener('click', (function(row, col) {
              return function() {
                ws.send(JSON.stringify({ type: 'toggle', r: row, c: col }));
              };
            })(r, c));
            gridEl.appendChild(cell);
          }
        }
        return;
      }

      if (msg.type === 'leaderboard' && Array.isArray(msg.players)) {
        ranksEl.innerHTML = '';
        msg.players.forEach(function(p, i) {
          const li = document.createElement('li');
          li.textContent = (i + 1) + '. ' + p.name + ' — ' + p.lineCount;
          ranksEl.appendChild(li);
        });
        return;
      }
    } catch (e) {
      console.error('bad message', e);
    }
  };

  ws.onclose = function() {
    statusEl.textContent = 'Disconnected.';
  };

  ws.onerror = function() {
    statusEl.textContent = 'Error with WebSocket.';
  };
})();
</script>
</body>
</html>
`

const boardHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Bingobox</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; max-width: 40rem; }
  img { border: 1px solid #ddd; }
  code { font-size: 1.5rem; }
</style>
</head>
<body>
<h1>Share this room</h1>
<p>Room code: <code id="code"></code></p>
<p><a id="link"></a></p>
<img id="qr" width="320" height="320" alt="QR code for the join link">

<script>
(function() {
  const parts = location.pathname.replace(/\/$/, '').split('/');
  const roomId = parts[parts.length - 1];
  const playPath = parts.slice(0, parts.length - 2).join('/') + '/play/' + roomId;

  document.getElementById('code').textContent = roomId;

  const link = document.getElementById('link');
  link.href = playPath;
  link.textContent = location.protocol + '//' + location.host + playPath;

  document.getElementById('qr').src = playPath + '/qr';
})();
</script>
</body>
</html>
`

func serveHomePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(homeHTML))
	}
}

func servePlayPage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(playHTML))
	}
}

func serveBoardPage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(boardHTML))
	}
}
