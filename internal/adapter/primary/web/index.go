package web

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Check-in Manager</title>
    <style>
        body { font-family: sans-serif; max-width: 640px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0; white-space: pre-line; }
        .paused { color: #c00; }
        .close { color: #c00; }
        button { background: #007bff; color: white; border: none; padding: 8px 16px; border-radius: 5px; cursor: pointer; margin: 2px; }
        button:hover { background: #0056b3; }
        input { padding: 6px; margin: 4px; width: 90px; }
        li { margin: 4px 0; }
    </style>
</head>
<body>
    <h1>Check-in Manager</h1>
    <div class="info" id="status">Loading...</div>
    <div>
        <label><input type="checkbox" id="enabled" onchange="setEnabled()"> Enabled</label>
    </div>
    <ol id="entries"></ol>
    <div>
        <button onclick="call('POST', '/api/entries')">Add</button>
        <button onclick="call('POST', '/api/entries/sort')">Sort</button>
        <button onclick="call('DELETE', '/api/entries?marked=true')">Remove marked</button>
    </div>
    <div>
        <input type="number" id="hours" value="0"> h
        <input type="number" id="minutes" value="0"> m
        <button onclick="shift()">Shift all</button>
        <button onclick="call('POST', '/api/shift/undo')">Undo</button>
    </div>
    <div id="weekdays"></div>
    <div>
        <button onclick="call('POST', '/api/pause', {mode: 'hour', hour: 7})">Pause until 7 am</button>
        <button onclick="call('POST', '/api/pause', {mode: 'days', days: 1})">Pause 1 day</button>
        <button onclick="call('DELETE', '/api/pause')">Resume</button>
    </div>
    <script>
        const days = ['Mon', 'Tue', 'Wed', 'Thu', 'Fri', 'Sat', 'Sun'];

        async function call(method, url, body) {
            const opts = {method: method, headers: {'Content-Type': 'application/json'}};
            if (body) opts.body = JSON.stringify(body);
            const res = await fetch(url, opts);
            if (!res.ok) {
                const data = await res.json();
                alert(data.error);
            }
            await loadStatus();
        }

        async function setEnabled() {
            await call('PUT', '/api/enabled', {enabled: document.getElementById('enabled').checked});
        }

        async function shift() {
            await call('POST', '/api/shift', {
                hours: parseInt(document.getElementById('hours').value),
                minutes: parseInt(document.getElementById('minutes').value)
            });
        }

        async function setTime(id, value) {
            await call('PUT', '/api/entries/' + id, {time: value});
        }

        async function loadStatus() {
            const res = await fetch('/api/settings');
            const data = await res.json();
            document.getElementById('enabled').checked = data.enabled;

            let status = data.repeatMessage;
            if (data.pauseActive) {
                status = '<span class="paused">' + data.pauseMessage + '</span>\n' + status;
            }
            if (data.nextCheckIn) {
                status += '\nNext: ' + new Date(data.nextCheckIn).toLocaleString();
            }
            document.getElementById('status').innerHTML = status;

            const list = document.getElementById('entries');
            list.innerHTML = '';
            for (const e of data.entries) {
                const li = document.createElement('li');
                li.innerHTML = '<input type="time" step="1" value="' + e.time + '" onchange="setTime(\'' + e.id + '\', this.value)">' +
                    '<label><input type="checkbox" ' + (e.marked ? 'checked' : '') +
                    ' onchange="call(\'POST\', \'/api/entries/' + e.id + '/mark\')"> mark</label>' +
                    (e.tooClose ? ' <span class="close">less than 10 minutes apart</span>' : '');
                list.appendChild(li);
            }

            const wd = document.getElementById('weekdays');
            wd.innerHTML = '';
            for (const d of days) {
                const selected = data.weekdays.includes(d);
                wd.innerHTML += '<label><input type="checkbox" ' + (selected ? 'checked' : '') +
                    ' onchange="call(\'POST\', \'/api/weekdays/' + d + '/toggle\')"> ' + d + '</label> ';
            }
        }

        loadStatus();
        setInterval(loadStatus, 5000);
    </script>
</body>
</html>`
